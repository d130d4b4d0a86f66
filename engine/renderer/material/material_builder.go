package material

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// MaterialBuilderOption is a function that configures the render state of a material during construction.
type MaterialBuilderOption func(*BaseMaterial)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.name = name
	}
}

// WithLightType is an option builder that sets the shading model of the material.
//
// Parameters:
//   - lightType: the shading model
//
// Returns:
//   - MaterialBuilderOption: a function that applies the light type option to a material
func WithLightType(lightType LightType) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.lightType = lightType
	}
}

// WithSide is an option builder that sets the rendered side, updating culling accordingly.
//
// Parameters:
//   - side: the side to render
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithSide(side Side) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.SetSide(side)
	}
}

// WithTransparent is an option builder that applies the transparency macro.
//
// Parameters:
//   - transparent: the transparency state
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparent(transparent bool) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.SetTransparent(transparent)
	}
}

// WithAlphaCutoff is an option builder that sets the alpha test threshold.
//
// Parameters:
//   - cutoff: the threshold, 0 to disable
//
// Returns:
//   - MaterialBuilderOption: a function that applies the alpha cutoff option to a material
func WithAlphaCutoff(cutoff float32) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.AlphaCutoff = cutoff
	}
}

// WithDepth is an option builder that configures depth testing and writes.
//
// Parameters:
//   - test: enable depth testing
//   - mask: enable depth writes
//   - fn: the depth comparison function
//
// Returns:
//   - MaterialBuilderOption: a function that applies the depth options to a material
func WithDepth(test, mask bool, fn wgpu.CompareFunction) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.DepthTest = test
		m.DepthMask = mask
		m.DepthFunc = fn
	}
}

// WithShadows is an option builder that sets whether the material casts and receives shadows.
//
// Parameters:
//   - cast: include meshes in shadow passes
//   - receive: sample shadow maps while shading
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shadow options to a material
func WithShadows(cast, receive bool) MaterialBuilderOption {
	return func(m *BaseMaterial) {
		m.CastShadows = cast
		m.ReceiveShadows = receive
	}
}
