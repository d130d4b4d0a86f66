package light

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithName is an option builder that sets the light name.
//
// Parameters:
//   - name: the light name
//
// Returns:
//   - LightBuilderOption: a function that applies the name option to a lightImpl
func WithName(name string) LightBuilderOption {
	return func(l *lightImpl) {
		l.name = name
	}
}

// WithNode is an option builder that attaches the light to a scene node.
//
// Parameters:
//   - n: the node supplying the world transform
//
// Returns:
//   - LightBuilderOption: a function that applies the node option to a lightImpl
func WithNode(n *scene.Node) LightBuilderOption {
	return func(l *lightImpl) {
		l.node = n
	}
}

// WithPosition is an option builder that sets the position used when the light has no node.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(p mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = p
	}
}

// WithColor is an option builder that sets the color of the light.
//
// Parameters:
//   - c: the linear color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the attenuation range.
//
// Parameters:
//   - lightRange: the range value, 0 for unbounded
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithSpotCone is an option builder that sets the spot cone half-angles. Angles are in radians
// and stored as cosines.
//
// Parameters:
//   - inner: the inner cone half-angle in radians
//   - outer: the outer cone half-angle in radians
//
// Returns:
//   - LightBuilderOption: a function that applies the spot cone option to a lightImpl
func WithSpotCone(inner, outer float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.innerCone = math32.Cos(inner)
		l.outerCone = math32.Cos(outer)
	}
}

// WithCastsShadows is an option builder that enables shadow casting.
//
// Parameters:
//   - castsShadows: true to enable shadow casting
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow casting option to a lightImpl
func WithCastsShadows(castsShadows bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.castsShadows = castsShadows
	}
}

// WithShadowOptions is an option builder that configures the cube shadow of a point light.
//
// Parameters:
//   - opts: the cube shadow options
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow options to a lightImpl
func WithShadowOptions(opts ...CubeShadowBuilderOption) LightBuilderOption {
	return func(l *lightImpl) {
		l.shadowOptions = append(l.shadowOptions, opts...)
	}
}
