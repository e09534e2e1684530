package model

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/stretchr/testify/require"
)

func TestGPUTypesArePlain(t *testing.T) {
	require.NoError(t, common.CheckPlain[GPUVertex]())
	require.NoError(t, common.CheckPlain[GPUSkinnedVertex]())
	require.NoError(t, common.CheckPlain[GPUModelData]())
}

func TestAppendMesh(t *testing.T) {
	vertices, indices := Cube()
	mesh, err := AppendMesh(table.Empty{}, vertices, indices)
	require.NoError(t, err)
	require.Equal(t, 2, mesh.BlockCount())
	require.Equal(t, 8*64+36*4, mesh.DataByteSize())
	require.NoError(t, table.CheckAlignment(mesh))

	buf, err := table.Bytes(mesh)
	require.NoError(t, err)

	header, err := table.ReadHeader(buf, 2)
	require.NoError(t, err)
	require.Equal(t, []uint32{2, 2 + 8*16}, header)

	gotVertices, err := table.Decode[GPUVertex](buf, 2, 0)
	require.NoError(t, err)
	require.Equal(t, vertices, gotVertices)

	gotIndices, err := table.Decode[uint32](buf, 2, 1)
	require.NoError(t, err)
	require.Equal(t, indices, gotIndices)
}

func TestAppendInstances(t *testing.T) {
	instances := []Instance{
		{Position: [3]float32{1, 2, 3}, Scale: [3]float32{1, 1, 1}},
		{Position: [3]float32{-4, 0, 8}, Scale: [3]float32{2, 2, 2}},
	}
	tbl, err := AppendInstances(table.Empty{}, instances)
	require.NoError(t, err)
	require.Equal(t, 2*64, tbl.DataByteSize())

	buf, err := table.Bytes(tbl)
	require.NoError(t, err)
	got, err := table.Decode[GPUModelData](buf, 1, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Translation lives in the last column; identity rotation keeps scale on the diagonal.
	require.Equal(t, [4]float32{1, 2, 3, 1}, [4]float32(got[0].Model[12:16]))
	require.Equal(t, [4]float32{-4, 0, 8, 1}, [4]float32(got[1].Model[12:16]))
	require.Equal(t, float32(2), got[1].Model[0])
	require.Equal(t, float32(2), got[1].Model[5])
	require.Equal(t, float32(2), got[1].Model[10])
}

func TestComputeBoundingRadius(t *testing.T) {
	vertices, _ := Cube()
	require.InDelta(t, 0.866, ComputeBoundingRadius(vertices), 0.001)
	require.Zero(t, ComputeBoundingRadius(nil))
}

func TestNewModel(t *testing.T) {
	vertices, indices := Cube()
	m := NewModel(WithName("cube"), WithMesh(vertices, indices))
	require.Equal(t, "cube", m.Name())
	require.Equal(t, 36, m.IndexCount())
	require.InDelta(t, 0.866, m.BoundingRadius(), 0.001)

	m = NewModel(WithMesh(vertices, indices), WithBoundingRadius(2))
	require.Equal(t, float32(2), m.BoundingRadius())

	tbl, err := AppendModel(table.Empty{}, m)
	require.NoError(t, err)
	require.Equal(t, 8*64+36*4, tbl.DataByteSize())
}

func TestAppendVisibleInstances(t *testing.T) {
	proj := common.Perspective(math.Pi/2, 1, 1, 100)
	view := common.LookAt([3]float32{0, 0, 10}, [3]float32{}, [3]float32{0, 1, 0})
	frustum := common.FrustumFromMatrix(proj.Mul(view))

	one := [3]float32{1, 1, 1}
	instances := []Instance{
		{Position: [3]float32{0, 0, 0}, Scale: one},
		{Position: [3]float32{0, 0, 20}, Scale: one},
		{Position: [3]float32{50, 0, 0}, Scale: one},
		{Position: [3]float32{0, 0, -80}, Scale: one},
		// Only visible because its scale grows the bounding sphere across the right plane.
		{Position: [3]float32{12, 0, 0}, Scale: [3]float32{1, -4, 1}},
	}
	tbl, err := AppendVisibleInstances(table.Empty{}, instances, frustum, 0.866)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Head().Len())

	buf, err := table.Bytes(tbl)
	require.NoError(t, err)
	got, err := table.Decode[GPUModelData](buf, 1, 0)
	require.NoError(t, err)
	require.Equal(t, [4]float32{0, 0, 0, 1}, [4]float32(got[0].Model[12:16]))
	require.Equal(t, [4]float32{0, 0, -80, 1}, [4]float32(got[1].Model[12:16]))
	require.Equal(t, [4]float32{12, 0, 0, 1}, [4]float32(got[2].Model[12:16]))
}
