package light

import (
	"math"

	"github.com/Carmen-Shannon/gputable/common"
)

// LightBuilderOption configures a light created by NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition places the light in world space. Directional lights ignore it.
//
// Parameters:
//   - x, y, z: the world-space position
//
// Returns:
//   - LightBuilderOption: the option
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithDirection sets where directional and spot lights point. The vector is stored
// at unit length; a zero vector stays zero.
//
// Parameters:
//   - x, y, z: the direction, any non-zero length
//
// Returns:
//   - LightBuilderOption: the option
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.Normalize([3]float32{x, y, z})
	}
}

// WithColor sets the linear RGB color written to GPULight.Color.
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity scales the color.
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange sets the distance at which point and spot lights fade to nothing.
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone sets the spot cone half-angles. GPULight stores cosines so the
// shader can compare against a dot product directly; inner must be the smaller
// angle, which makes its cosine the larger one.
//
// Parameters:
//   - innerDeg: full-intensity half-angle in degrees
//   - outerDeg: cutoff half-angle in degrees
//
// Returns:
//   - LightBuilderOption: the option
func WithSpotCone(innerDeg, outerDeg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = cosDeg(innerDeg)
		l.outerCone = cosDeg(outerDeg)
	}
}

// WithEnabled controls whether AppendLights writes the light. A disabled light
// takes no slot in the table.
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithCastsShadows sets the GPULight.CastsShadows flag.
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

func cosDeg(deg float32) float32 {
	return float32(math.Cos(float64(deg) * math.Pi / 180))
}
