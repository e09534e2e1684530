package main

import (
	"math"

	"github.com/Carmen-Shannon/gputable/common"
	"github.com/Carmen-Shannon/gputable/engine/light"
	"github.com/Carmen-Shannon/gputable/engine/model"
	"github.com/Carmen-Shannon/gputable/engine/table"
)

// sceneBlocks names the blocks of the demo scene table in header order.
var sceneBlocks = []string{"vertices", "indices", "instances", "light header", "lights"}

// sceneCamera is the demo camera: slightly above the center of the instance ring,
// looking toward its -Z edge.
func sceneCamera() common.Frustum {
	proj := common.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)
	view := common.LookAt([3]float32{0, 2, 0}, [3]float32{0, 0, -10}, [3]float32{0, 1, 0})
	return common.FrustumFromMatrix(proj.Mul(view))
}

// buildScene builds the demo table: a cube mesh, a ring of cube instances and a
// sun plus a ring of point lights. With cull set, only instances the demo camera
// can see are written.
func buildScene(instances, lights int, cull bool) (table.Table, error) {
	vertices, indices := model.Cube()
	cube := model.NewModel(model.WithName("cube"), model.WithMesh(vertices, indices))
	mesh, err := model.AppendModel(table.Empty{}, cube)
	if err != nil {
		return nil, err
	}

	placed := make([]model.Instance, instances)
	for i := range placed {
		x, z := ring(i, instances, 10)
		placed[i] = model.Instance{
			Position: [3]float32{x, 0, z},
			Rotation: [3]float32{0, float32(i) * 0.1, 0},
			Scale:    [3]float32{1, 1, 1},
		}
	}
	var withInstances model.InstanceTable[model.MeshTable[table.Empty]]
	if cull {
		withInstances, err = model.AppendVisibleInstances(mesh, placed, sceneCamera(), cube.BoundingRadius())
	} else {
		withInstances, err = model.AppendInstances(mesh, placed)
	}
	if err != nil {
		return nil, err
	}

	ls := []light.Light{
		light.NewLight(light.LightTypeDirectional,
			light.WithDirection(-0.3, -1, -0.2),
			light.WithIntensity(1.5),
			light.WithCastsShadows(true),
		),
	}
	for i := range lights {
		x, z := ring(i, lights, 6)
		ls = append(ls, light.NewLight(light.LightTypePoint,
			light.WithPosition(x, 2, z),
			light.WithColor(1, 0.8, 0.6),
			light.WithRange(8),
		))
	}
	scene, err := light.AppendLights(withInstances, [3]float32{0.05, 0.05, 0.08}, ls)
	if err != nil {
		return nil, err
	}
	return scene, nil
}

func ring(i, n int, radius float64) (float32, float32) {
	if n == 0 {
		return 0, 0
	}
	a := 2 * math.Pi * float64(i) / float64(n)
	return float32(radius * math.Cos(a)), float32(radius * math.Sin(a))
}
