package light

// LightType identifies the kind of light source. The value is written verbatim into
// GPULight.LightType.
type LightType uint32

const (
	// LightTypeDirectional has a direction but no position and no attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint emits in all directions from a position, attenuated up to its range.
	LightTypePoint

	// LightTypeSpot emits in a cone along its direction, attenuated by distance and by
	// angle between the inner and outer cone.
	LightTypeSpot
)

// String returns the lowercase name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

type lightImpl struct {
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	color        [3]float32
	intensity    float32
	lightRange   float32
	innerCone    float32 // cos(inner half-angle)
	outerCone    float32 // cos(outer half-angle)
	enabled      bool
	castsShadows bool
}

// Light is a read-only description of one light source as it enters a light table.
// Properties that do not apply to a light's type are still returned and still
// written; the shader ignores them.
type Light interface {
	// Type returns the kind of light source.
	Type() LightType

	// Position returns the world-space position as (x, y, z).
	Position() [3]float32

	// Direction returns the normalized direction as (x, y, z).
	Direction() [3]float32

	// Color returns the light color as (r, g, b).
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// Range returns the attenuation cutoff distance.
	Range() float32

	// InnerCone returns cos(inner half-angle) for spot lights.
	InnerCone() float32

	// OuterCone returns cos(outer half-angle) for spot lights.
	OuterCone() float32

	// Enabled reports whether the light is included when a light table is built.
	Enabled() bool

	// CastsShadows reports whether the light is flagged for shadow mapping.
	CastsShadows() bool

	// GPU converts the light to its table record.
	//
	// Returns:
	//   - GPULight: the 64-byte GPU representation
	GPU() GPULight
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with defaults and any provided
// options applied. The defaults are a white light of intensity 1 pointing down -Y
// with a range of 10 and a 25/35 degree spot cone.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:  lightType,
		direction:  [3]float32{0, -1, 0},
		color:      [3]float32{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		innerCone:  cosDeg(25),
		outerCone:  cosDeg(35),
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType       { return l.lightType }
func (l *lightImpl) Position() [3]float32  { return l.position }
func (l *lightImpl) Direction() [3]float32 { return l.direction }
func (l *lightImpl) Color() [3]float32     { return l.color }
func (l *lightImpl) Intensity() float32    { return l.intensity }
func (l *lightImpl) Range() float32        { return l.lightRange }
func (l *lightImpl) InnerCone() float32    { return l.innerCone }
func (l *lightImpl) OuterCone() float32    { return l.outerCone }
func (l *lightImpl) Enabled() bool         { return l.enabled }
func (l *lightImpl) CastsShadows() bool    { return l.castsShadows }

func (l *lightImpl) GPU() GPULight {
	var shadows uint32
	if l.castsShadows {
		shadows = 1
	}
	return GPULight{
		Position:     l.position,
		LightType:    uint32(l.lightType),
		Color:        l.color,
		Intensity:    l.intensity,
		Direction:    l.direction,
		LightRange:   l.lightRange,
		InnerCone:    l.innerCone,
		OuterCone:    l.outerCone,
		CastsShadows: shadows,
	}
}
