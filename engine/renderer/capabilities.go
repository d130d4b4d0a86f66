package renderer

import "github.com/cogentcore/webgpu/wgpu"

// DefaultPrecision is the float precision shaders are compiled with.
const DefaultPrecision = "highp"

// Capabilities describes device limits relevant to material compilation.
type Capabilities struct {
	// MaxTextureIndex is the highest texture unit a shader stage can bind.
	MaxTextureIndex int
	// MaxTextureSize is the largest 2D texture edge length.
	MaxTextureSize int
	// Precision is the shader float precision.
	Precision string
}

// NewCapabilities derives Capabilities from device limits.
//
// Parameters:
//   - limits: the device limits
//
// Returns:
//   - Capabilities: the derived capabilities
func NewCapabilities(limits wgpu.Limits) Capabilities {
	return Capabilities{
		MaxTextureIndex: int(limits.MaxSampledTexturesPerShaderStage) - 1,
		MaxTextureSize:  int(limits.MaxTextureDimension2D),
		Precision:       DefaultPrecision,
	}
}

// DefaultCapabilities returns the capabilities of the WebGPU default limits.
func DefaultCapabilities() Capabilities {
	return NewCapabilities(wgpu.DefaultLimits())
}
