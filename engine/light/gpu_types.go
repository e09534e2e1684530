package light

import (
	"iter"
	"unsafe"

	"github.com/Carmen-Shannon/gputable/engine/table"
)

// MaxGPULights is the maximum number of lights written into one light table. The
// CPU-side light list is unbounded; lights past the budget are dropped in list order,
// so callers that expect truncation should sort by priority first.
const MaxGPULights = 1024

// GPULightSource is the WGSL definition of the Light struct.
// Matches GPULight layout exactly (64 bytes, std430 aligned).
const GPULightSource = `struct Light {
    position: vec3<f32>,
    light_type: u32,
    color: vec3<f32>,
    intensity: f32,
    direction: vec3<f32>,
    range: f32,
    inner_cone: f32,
    outer_cone: f32,
    casts_shadows: u32,
    _pad: u32,
};`

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 64 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position     [3]float32 // offset  0: world-space position (point/spot) or unused (directional)
	LightType    uint32     // offset 12: 0 = directional, 1 = point, 2 = spot
	Color        [3]float32 // offset 16: RGB color
	Intensity    float32    // offset 28: scalar multiplier
	Direction    [3]float32 // offset 32: normalized direction (directional/spot) or unused (point)
	LightRange   float32    // offset 44: attenuation cutoff distance
	InnerCone    float32    // offset 48: cos(inner half-angle) for spot
	OuterCone    float32    // offset 52: cos(outer half-angle) for spot
	CastsShadows uint32     // offset 56: 1 = casts shadows, 0 = does not
	_pad         uint32     // offset 60: explicit tail padding
}

// PlainData marks GPULight as uploadable without conversion.
func (GPULight) PlainData() {}

// GPULightHeaderSource is the WGSL definition of the LightHeader struct.
// Matches GPULightHeader layout exactly (16 bytes, std430 aligned).
const GPULightHeaderSource = `struct LightHeader {
    ambient_color: vec3<f32>,
    light_count: u32,
};`

// GPULightHeader is the record stored in the first block of a light table.
// Size: 16 bytes (vec3 + u32, std430 aligned).
type GPULightHeader struct {
	AmbientColor [3]float32 // offset  0: scene ambient RGB
	LightCount   uint32     // offset 12: number of records in the following light block
}

// PlainData marks GPULightHeader as uploadable without conversion.
func (GPULightHeader) PlainData() {}

var (
	_ [64 - unsafe.Sizeof(GPULight{})]struct{}
	_ [unsafe.Sizeof(GPULight{}) - 64]struct{}
	_ [16 - unsafe.Sizeof(GPULightHeader{})]struct{}
	_ [unsafe.Sizeof(GPULightHeader{}) - 16]struct{}
)

// ActiveLights yields the GPU record of every enabled light, stopping after
// MaxGPULights records. The sequence is re-traversable as long as lights is not
// modified in between.
//
// Parameters:
//   - lights: the full light list
//
// Returns:
//   - iter.Seq[GPULight]: the records to upload
func ActiveLights(lights []Light) iter.Seq[GPULight] {
	return func(yield func(GPULight) bool) {
		written := 0
		for _, l := range lights {
			if written == MaxGPULights {
				return
			}
			if !l.Enabled() {
				continue
			}
			written++
			if !yield(l.GPU()) {
				return
			}
		}
	}
}

// LightTable is the chain produced by AppendLights: a one-record header block, then
// the light records.
type LightTable[T table.Table] = table.Node[*table.SeqBlock[GPULight], table.Node[*table.SliceBlock[GPULightHeader], T]]

// AppendLights appends a GPULightHeader block and a GPULight block onto t. The
// header's LightCount is the number of records in the light block, which is at most
// MaxGPULights.
//
// Parameters:
//   - t: the table to extend
//   - ambient: the scene ambient color as RGB
//   - lights: the full light list (only enabled lights are written)
//
// Returns:
//   - LightTable[T]: the extended table
//   - error: an error if a record type fails the plain-data check
func AppendLights[T table.Table](t T, ambient [3]float32, lights []Light) (LightTable[T], error) {
	lb, err := table.StructSeq(ActiveLights(lights))
	if err != nil {
		return LightTable[T]{}, err
	}
	hb, err := table.StructSlice([]GPULightHeader{{
		AmbientColor: ambient,
		LightCount:   uint32(lb.Len()),
	}})
	if err != nil {
		return LightTable[T]{}, err
	}
	return table.Append(table.Append(t, hb), lb), nil
}
