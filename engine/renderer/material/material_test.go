package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	m := NewPBRMaterial()
	s := m.State()

	assert.True(t, s.CullFace())
	assert.Equal(t, wgpu.CullModeBack, s.CullFaceType())
	assert.Equal(t, SideFront, s.Side())
	assert.True(t, s.DepthTest)
	assert.True(t, s.DepthMask)
	assert.Equal(t, [2]float32{0, 1}, s.DepthRange)
	assert.Equal(t, wgpu.CompareFunctionLess, s.DepthFunc)
	assert.False(t, s.Blend)
	assert.Equal(t, wgpu.BlendFactorOne, s.BlendSrc)
	assert.Equal(t, wgpu.BlendFactorZero, s.BlendDst)
	assert.Nil(t, s.BlendState())
	assert.Equal(t, LightTypePBR, m.LightType())
	assert.Equal(t, common.Color{R: 1, G: 1, B: 1, A: 1}, m.BaseColor)
}

func TestSideDerivesCulling(t *testing.T) {
	tests := []struct {
		name     string
		side     Side
		cull     bool
		cullType wgpu.CullMode
	}{
		{"back", SideBack, true, wgpu.CullModeFront},
		{"front and back", SideFrontAndBack, false, wgpu.CullModeBack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewBasicMaterial()
			m.SetSide(tt.side)
			assert.Equal(t, tt.side, m.Side())
			assert.Equal(t, tt.cull, m.CullFace())
			assert.Equal(t, tt.cullType, m.CullFaceType())
		})
	}

	m := NewBasicMaterial()
	m.SetSide(SideBack)
	m.SetSide(SideFront)
	assert.Equal(t, wgpu.CullModeBack, m.CullFaceType())
}

func TestCullFaceDerivesSide(t *testing.T) {
	m := NewBasicMaterial()

	m.SetCullFace(false)
	assert.Equal(t, SideFrontAndBack, m.Side())
	assert.Equal(t, wgpu.CullModeNone, m.CullMode())

	m.SetCullFace(true)
	assert.Equal(t, SideFront, m.Side())

	m.SetCullFaceType(wgpu.CullModeFront)
	assert.Equal(t, SideBack, m.Side())
	assert.Equal(t, wgpu.CullModeFront, m.CullMode())

	m.SetCullFace(false)
	m.SetCullFaceType(wgpu.CullModeBack)
	assert.Equal(t, SideFrontAndBack, m.Side())
	m.SetCullFace(true)
	assert.Equal(t, SideFront, m.Side())
}

func TestTransparentMacro(t *testing.T) {
	m := NewPBRMaterial()
	m.SetTransparent(true)

	assert.True(t, m.Transparent())
	assert.True(t, m.Blend)
	assert.False(t, m.DepthMask)
	assert.Equal(t,
		[]wgpu.BlendFactor{wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrcAlpha, wgpu.BlendFactorOne, wgpu.BlendFactorOneMinusSrcAlpha},
		[]wgpu.BlendFactor{m.BlendSrc, m.BlendDst, m.BlendSrcAlpha, m.BlendDstAlpha})

	bs := m.BlendState()
	if assert.NotNil(t, bs) {
		assert.Equal(t, wgpu.BlendOperationAdd, bs.Color.Operation)
		assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, bs.Alpha.DstFactor)
	}

	m.SetTransparent(false)
	assert.False(t, m.Blend)
	assert.True(t, m.DepthMask)
}

func TestPBRRenderOption(t *testing.T) {
	tex := texture.New()
	m := NewPBRMaterial(WithAlphaCutoff(0.5))
	m.BaseColorMap = tex
	m.MetallicRoughnessMap = tex
	m.OcclusionInMetallicRoughnessMap = true
	m.SpecularEnvMap = tex
	m.IsSpecularGlossiness = true

	opt := m.GetRenderOption(nil)
	assert.True(t, opt.Has("LIGHT_TYPE_PBR"))
	assert.True(t, opt.Has("BASECOLOR_MAP"))
	assert.True(t, opt.Has("METALLIC_ROUGHNESS_MAP"))
	assert.True(t, opt.Has("OCCLUSION_MAP_IN_METALLIC_ROUGHNESS_MAP"))
	assert.True(t, opt.Has("PBR_SPECULAR_GLOSSINESS"))
	assert.True(t, opt.Has(OptionAlphaCutoff))
	assert.True(t, opt.Has(OptionHasTexcoord0))
	assert.False(t, opt.Has("SPECULAR_ENV_MAP"))
	assert.False(t, opt.Has("OCCLUSION_MAP"))
	assert.False(t, opt.Has(OptionHasNormal))
	assert.Equal(t, int(SideFront), opt[OptionSide])

	assert.False(t, opt.Has("TRANSPARENCY_MAP"))

	m.BrdfLUT = tex
	assert.True(t, m.GetRenderOption(nil).Has("SPECULAR_ENV_MAP"))

	m.TransparencyMap = tex
	assert.True(t, m.GetRenderOption(nil).Has("TRANSPARENCY_MAP"))
	assert.Same(t, tex, m.Textures()["transparency"])
}

func TestBasicRenderOption(t *testing.T) {
	cube := texture.New()
	cube.Target = texture.TargetCube

	m := NewBasicMaterial()
	m.NormalMap = texture.New()
	m.Diffuse = FromTexture(cube)
	m.Specular = FromTexture(texture.New())

	opt := m.GetRenderOption(RenderOption{OptionHasLight: 1})
	assert.True(t, opt.Has("HAS_SPECULAR"))
	assert.True(t, opt.Has("DIFFUSE_CUBE_MAP"))
	assert.False(t, opt.Has("DIFFUSE_MAP"))
	assert.True(t, opt.Has("SPECULAR_MAP"))
	assert.True(t, opt.Has(OptionHasNormal))
	assert.True(t, opt.Has(OptionHasNormalMap))

	noLight := m.GetRenderOption(nil)
	assert.False(t, noLight.Has("SPECULAR_MAP"))
	assert.False(t, noLight.Has(OptionHasNormal))

	m.SetLightType(LightTypeLambert)
	assert.False(t, m.GetRenderOption(nil).Has("HAS_SPECULAR"))
}

func TestRenderOptionKey(t *testing.T) {
	a := RenderOption{"B": 1, "A": 2}
	b := RenderOption{"A": 2, "B": 1}
	assert.Equal(t, "A=2;B=1", a.Key())
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "override A: i32 = 2;\noverride B: i32 = 1;\n", a.Defines())
}

func TestColorOrTexture(t *testing.T) {
	var unset ColorOrTexture
	assert.False(t, unset.IsSet())

	c := FromColor(common.Color{R: 1, A: 1})
	col, ok := c.Color()
	assert.True(t, ok)
	assert.Equal(t, float32(1), col.R)
	assert.False(t, c.IsTexture())

	tex := texture.New()
	v := FromTexture(tex)
	got, ok := v.Texture()
	assert.True(t, ok)
	assert.Same(t, tex, got)
	_, ok = v.Color()
	assert.False(t, ok)

	assert.False(t, FromTexture(nil).IsSet())
}

func TestUniqueIDs(t *testing.T) {
	a, b := NewPBRMaterial(), NewPBRMaterial()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Contains(t, a.ID(), "PBRMaterial_")
}

func TestGeometryMaterial(t *testing.T) {
	m := NewGeometryMaterial(VertexTypeDistance, WithSide(SideBack))
	assert.Equal(t, SideBack, m.Side())
	assert.Equal(t, wgpu.CullModeFront, m.CullMode())
	assert.True(t, m.GetRenderOption(nil).Has("VERTEX_TYPE_DISTANCE"))
	assert.Equal(t, LightTypeNone, m.LightType())
}
