package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
)

// PBRMaterial is a physically-based material supporting both the metallic-roughness and the
// specular-glossiness workflows.
type PBRMaterial struct {
	BaseMaterial

	// BaseColor is the base color factor.
	BaseColor common.Color
	// BaseColorMap is the base color texture.
	BaseColorMap *texture.Texture

	// Metallic is the metallic factor.
	Metallic float32
	// MetallicMap is a dedicated metallic texture.
	MetallicMap *texture.Texture
	// Roughness is the roughness factor.
	Roughness float32
	// RoughnessMap is a dedicated roughness texture.
	RoughnessMap *texture.Texture
	// MetallicRoughnessMap packs roughness in G and metallic in B.
	MetallicRoughnessMap *texture.Texture

	// OcclusionMap is the ambient occlusion texture.
	OcclusionMap *texture.Texture
	// OcclusionInMetallicRoughnessMap marks occlusion packed into the R channel of MetallicRoughnessMap.
	OcclusionInMetallicRoughnessMap bool

	// TransparencyMap is the opacity texture.
	TransparencyMap *texture.Texture

	// DiffuseEnvMap is the irradiance environment map.
	DiffuseEnvMap *texture.Texture
	// BrdfLUT is the split-sum BRDF lookup table.
	BrdfLUT *texture.Texture
	// SpecularEnvMap is the prefiltered specular environment map.
	SpecularEnvMap *texture.Texture

	// Emission is the emissive color or texture.
	Emission ColorOrTexture

	// IsSpecularGlossiness selects the specular-glossiness workflow.
	IsSpecularGlossiness bool
	// Specular is the specular color factor of the specular-glossiness workflow.
	Specular common.Color
	// Glossiness is the glossiness factor of the specular-glossiness workflow.
	Glossiness float32
	// SpecularGlossinessMap packs specular in RGB and glossiness in A.
	SpecularGlossinessMap *texture.Texture
}

var _ Material = &PBRMaterial{}

// NewPBRMaterial creates a PBRMaterial with white base color, fully metallic and fully rough.
//
// Parameters:
//   - opts: optional render state options
//
// Returns:
//   - *PBRMaterial: the material
func NewPBRMaterial(opts ...MaterialBuilderOption) *PBRMaterial {
	m := &PBRMaterial{
		BaseMaterial: newBaseMaterial("PBRMaterial", LightTypePBR),
		BaseColor:    common.Color{R: 1, G: 1, B: 1, A: 1},
		Metallic:     1,
		Roughness:    1,
		Specular:     common.Color{R: 1, G: 1, B: 1, A: 1},
		Glossiness:   1,
	}
	for _, opt := range opts {
		opt(&m.BaseMaterial)
	}
	return m
}

func (m *PBRMaterial) Textures() map[string]*texture.Texture {
	out := m.BaseMaterial.Textures()
	addTexture(out, "baseColorMap", m.BaseColorMap)
	addTexture(out, "metallicMap", m.MetallicMap)
	addTexture(out, "roughnessMap", m.RoughnessMap)
	addTexture(out, "metallicRoughnessMap", m.MetallicRoughnessMap)
	addTexture(out, "occlusionMap", m.OcclusionMap)
	addTexture(out, "transparency", m.TransparencyMap)
	addTexture(out, "diffuseEnvMap", m.DiffuseEnvMap)
	addTexture(out, "brdfLUT", m.BrdfLUT)
	addTexture(out, "specularEnvMap", m.SpecularEnvMap)
	addTexture(out, "specularGlossinessMap", m.SpecularGlossinessMap)
	addChannel(out, "emission", m.Emission)
	return out
}

func (m *PBRMaterial) GetRenderOption(opt RenderOption) RenderOption {
	opt = m.BaseMaterial.GetRenderOption(opt)

	needUV := false
	flag := func(cond bool, name string, uv bool) {
		if cond {
			opt.Set(name)
			needUV = needUV || uv
		}
	}

	flag(m.BaseColorMap != nil, "BASECOLOR_MAP", true)
	flag(m.MetallicMap != nil, "METALLIC_MAP", true)
	flag(m.RoughnessMap != nil, "ROUGHNESS_MAP", true)
	flag(m.MetallicRoughnessMap != nil, "METALLIC_ROUGHNESS_MAP", true)
	flag(m.OcclusionMap != nil, "OCCLUSION_MAP", true)
	flag(m.OcclusionInMetallicRoughnessMap, "OCCLUSION_MAP_IN_METALLIC_ROUGHNESS_MAP", false)
	flag(m.TransparencyMap != nil, "TRANSPARENCY_MAP", true)
	flag(m.DiffuseEnvMap != nil, "DIFFUSE_ENV_MAP", false)
	flag(m.BrdfLUT != nil && m.SpecularEnvMap != nil, "SPECULAR_ENV_MAP", false)
	flag(m.Emission.IsTexture(), "EMISSION_MAP", true)

	if m.IsSpecularGlossiness {
		opt.Set("PBR_SPECULAR_GLOSSINESS")
		flag(m.SpecularGlossinessMap != nil, "SPECULAR_GLOSSINESS_MAP", true)
	}

	if needUV {
		opt.Set(OptionHasTexcoord0)
	}
	return opt
}
