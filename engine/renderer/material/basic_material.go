package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
)

// BasicMaterial is the classic shading material (constant, Lambert, Phong and Blinn-Phong).
type BasicMaterial struct {
	BaseMaterial

	// Diffuse is the diffuse color or texture. A cube texture selects the cube-mapped diffuse path.
	Diffuse ColorOrTexture
	// Ambient is the ambient color or texture.
	Ambient ColorOrTexture
	// Specular is the specular color or texture.
	Specular ColorOrTexture
	// Emission is the emissive color or texture.
	Emission ColorOrTexture

	// SkyboxMap is the environment cube used for reflection and refraction.
	SkyboxMap *texture.Texture
	// Reflectivity blends the reflected environment color.
	Reflectivity float32
	// RefractRatio is the refraction index ratio.
	RefractRatio float32
	// Refractivity blends the refracted environment color.
	Refractivity float32

	// Shininess is the specular exponent.
	Shininess float32

	// Transparency is the opacity, a float or a texture.
	Transparency float32
	// TransparencyMap is the opacity texture. Takes precedence over Transparency when set.
	TransparencyMap *texture.Texture
}

var _ Material = &BasicMaterial{}

// NewBasicMaterial creates a Phong BasicMaterial with mid-grey diffuse, white specular and no emission.
//
// Parameters:
//   - opts: optional render state options
//
// Returns:
//   - *BasicMaterial: the material
func NewBasicMaterial(opts ...MaterialBuilderOption) *BasicMaterial {
	m := &BasicMaterial{
		BaseMaterial: newBaseMaterial("BasicMaterial", LightTypePhong),
		Diffuse:      FromColor(common.Color{R: .5, G: .5, B: .5, A: 1}),
		Ambient:      ColorOrTexture{},
		Specular:     FromColor(common.Color{R: 1, G: 1, B: 1, A: 1}),
		Emission:     FromColor(common.Color{A: 1}),
		Shininess:    32,
		Transparency: 1,
	}
	for _, opt := range opts {
		opt(&m.BaseMaterial)
	}
	return m
}

func (m *BasicMaterial) Textures() map[string]*texture.Texture {
	out := m.BaseMaterial.Textures()
	addChannel(out, "diffuse", m.Diffuse)
	addChannel(out, "ambient", m.Ambient)
	addChannel(out, "specular", m.Specular)
	addChannel(out, "emission", m.Emission)
	addTexture(out, "skyboxMap", m.SkyboxMap)
	addTexture(out, "transparency", m.TransparencyMap)
	return out
}

func (m *BasicMaterial) GetRenderOption(opt RenderOption) RenderOption {
	opt = m.BaseMaterial.GetRenderOption(opt)

	if m.lightType == LightTypePhong || m.lightType == LightTypeBlinn {
		opt.Set("HAS_SPECULAR")
	}

	needUV := false
	if m.Diffuse.IsCubeTexture() {
		opt.Set("DIFFUSE_CUBE_MAP")
	} else if m.Diffuse.IsTexture() {
		opt.Set("DIFFUSE_MAP")
		needUV = true
	}

	if m.TransparencyMap != nil {
		opt.Set("TRANSPARENCY_MAP")
		needUV = true
	}

	if opt.Has(OptionHasLight) {
		for name, ch := range map[string]ColorOrTexture{
			"SPECULAR_MAP": m.Specular,
			"EMISSION_MAP": m.Emission,
			"AMBIENT_MAP":  m.Ambient,
		} {
			if ch.IsTexture() {
				opt.Set(name)
				needUV = true
			}
		}
		if m.SkyboxMap != nil {
			opt.Set("SKYBOX_MAP")
		}
	}

	if needUV {
		opt.Set(OptionHasTexcoord0)
	}
	return opt
}
