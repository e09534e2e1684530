package main

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/gputable/engine/light"
	"github.com/Carmen-Shannon/gputable/engine/table"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestBuildScene(t *testing.T) {
	scene, err := buildScene(2, 1, false)
	require.NoError(t, err)
	require.Equal(t, len(sceneBlocks), scene.BlockCount())
	require.NoError(t, table.CheckAlignment(scene))
	require.Equal(t, 948, scene.ByteSize())

	buf, err := table.Bytes(scene)
	require.NoError(t, err)
	header, err := table.ReadHeader(buf, scene.BlockCount())
	require.NoError(t, err)
	require.Equal(t, []uint32{5, 133, 169, 201, 205}, header)

	hdr, err := table.Decode[light.GPULightHeader](buf, 5, 3)
	require.NoError(t, err)
	require.Equal(t, uint32(2), hdr[0].LightCount)
}

func TestBuildSceneCulled(t *testing.T) {
	all, err := buildScene(64, 0, false)
	require.NoError(t, err)
	culled, err := buildScene(64, 0, true)
	require.NoError(t, err)

	// The camera sits inside the ring facing one edge, so roughly a quarter of the
	// instances are in view.
	require.Less(t, culled.DataByteSize(), all.DataByteSize())
	require.Greater(t, culled.DataByteSize(), all.DataByteSize()-64*64)
}

func TestBuildSceneEmpty(t *testing.T) {
	scene, err := buildScene(0, 0, false)
	require.NoError(t, err)
	require.Equal(t, 5, scene.BlockCount())

	buf, err := table.Bytes(scene)
	require.NoError(t, err)
	start, end, err := table.BlockRange(buf, 5, 2)
	require.NoError(t, err)
	require.Equal(t, start, end)
}

func TestRenderLayout(t *testing.T) {
	scene, err := buildScene(4, 2, false)
	require.NoError(t, err)
	buf, err := table.Bytes(scene)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, renderLayout(&out, buf, 5, sceneBlocks))
	for _, name := range sceneBlocks {
		require.Contains(t, out.String(), name)
	}
	require.Contains(t, out.String(), "XXH64")

	require.ErrorIs(t, renderLayout(&out, buf[:8], 5, sceneBlocks), table.ErrOutOfRange)
}

func TestLevelFlag(t *testing.T) {
	var l levelFlag
	require.NoError(t, l.Set("debug"))
	require.Equal(t, levelFlag(logrus.DebugLevel), l)
	require.Equal(t, "debug", l.String())
	require.Equal(t, "level", l.Type())
	require.Error(t, l.Set("loud"))
}

func TestRegion(t *testing.T) {
	r := make(region, 4)
	n, err := r.WriteAt([]byte{1, 2}, 1)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, region{0, 1, 2, 0}, r)

	_, err = r.WriteAt([]byte{1, 2, 3}, 2)
	require.Error(t, err)
}
