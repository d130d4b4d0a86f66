package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// LightType is the shading model a material is lit with.
type LightType string

const (
	LightTypeNone    LightType = "NONE"
	LightTypePhong   LightType = "PHONG"
	LightTypeBlinn   LightType = "BLINN"
	LightTypeLambert LightType = "LAMBERT"
	LightTypePBR     LightType = "PBR"
)

// Side selects which triangle faces are rendered.
type Side int

const (
	// SideFront renders front faces only (back faces culled).
	SideFront Side = iota + 1
	// SideBack renders back faces only (front faces culled).
	SideBack
	// SideFrontAndBack renders both faces (culling disabled).
	SideFrontAndBack
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "FRONT"
	case SideBack:
		return "BACK"
	case SideFrontAndBack:
		return "FRONT_AND_BACK"
	}
	return "UNKNOWN"
}

// Material defines the interface shared by every engine material: identity, shading model,
// the render state consumed when building pipelines, and the shader permutation flags it contributes.
type Material interface {
	// ID returns the generated unique identifier of the material.
	//
	// Returns:
	//   - string: the material id
	ID() string

	// Name returns the material name from the source asset, if any.
	//
	// Returns:
	//   - string: the material name
	Name() string

	// LightType returns the shading model.
	//
	// Returns:
	//   - LightType: the shading model tag
	LightType() LightType

	// State returns the render state of the material for reading and mutation.
	//
	// Returns:
	//   - *BaseMaterial: the render state
	State() *BaseMaterial

	// Textures returns the named texture bindings of the material. Unset channels are omitted.
	//
	// Returns:
	//   - map[string]*texture.Texture: binding name to texture
	Textures() map[string]*texture.Texture

	// GetRenderOption adds the material's shader permutation flags to opt.
	// HAS_LIGHT in opt enables the lighting-dependent flags.
	//
	// Parameters:
	//   - opt: the option set to extend, may be nil
	//
	// Returns:
	//   - RenderOption: the extended option set
	GetRenderOption(opt RenderOption) RenderOption
}

// BaseMaterial holds the render state common to all materials.
//
// Side, culling and transparency are derived fields and are only reachable through their mutators:
// SetSide, SetCullFace, SetCullFaceType and SetTransparent keep them mutually consistent.
type BaseMaterial struct {
	id        string
	name      string
	lightType LightType

	cullFace     bool
	cullFaceType wgpu.CullMode
	side         Side
	transparent  bool

	// Wireframe draws edges only.
	Wireframe bool

	// FrontFace is the winding order of front-facing triangles.
	FrontFace wgpu.FrontFace

	// DepthTest enables depth testing.
	DepthTest bool
	// DepthMask enables depth writes.
	DepthMask bool
	// DepthRange is the [near, far] depth range mapping.
	DepthRange [2]float32
	// DepthFunc is the depth comparison function.
	DepthFunc wgpu.CompareFunction

	// Blend enables color blending.
	Blend bool
	// BlendEquation and BlendEquationAlpha are the color and alpha blend operations.
	BlendEquation, BlendEquationAlpha wgpu.BlendOperation
	// BlendSrc and BlendDst are the color blend factors.
	BlendSrc, BlendDst wgpu.BlendFactor
	// BlendSrcAlpha and BlendDstAlpha are the alpha blend factors.
	BlendSrcAlpha, BlendDstAlpha wgpu.BlendFactor

	// AlphaCutoff discards fragments with alpha below the value. 0 disables the test.
	AlphaCutoff float32
	// IgnoreTransparent marks an explicitly opaque material whose alpha must be ignored.
	IgnoreTransparent bool
	// PremultiplyAlpha marks colors as premultiplied.
	PremultiplyAlpha bool

	// CastShadows includes meshes with this material in shadow passes.
	CastShadows bool
	// ReceiveShadows samples shadow maps while shading.
	ReceiveShadows bool

	// NormalMap is the tangent-space normal texture.
	NormalMap *texture.Texture
	// ParallaxMap is the height texture used for parallax mapping.
	ParallaxMap *texture.Texture
}

// newBaseMaterial returns the default render state: back-face culling, depth test and writes on,
// LESS depth comparison, and blending off with ONE/ZERO factors.
func newBaseMaterial(className string, lightType LightType) BaseMaterial {
	return BaseMaterial{
		id:                 common.GenerateID(className),
		lightType:          lightType,
		cullFace:           true,
		cullFaceType:       wgpu.CullModeBack,
		side:               SideFront,
		FrontFace:          wgpu.FrontFaceCCW,
		DepthTest:          true,
		DepthMask:          true,
		DepthRange:         [2]float32{0, 1},
		DepthFunc:          wgpu.CompareFunctionLess,
		BlendEquation:      wgpu.BlendOperationAdd,
		BlendEquationAlpha: wgpu.BlendOperationAdd,
		BlendSrc:           wgpu.BlendFactorOne,
		BlendDst:           wgpu.BlendFactorZero,
		BlendSrcAlpha:      wgpu.BlendFactorOne,
		BlendDstAlpha:      wgpu.BlendFactorZero,
	}
}

func (m *BaseMaterial) ID() string { return m.id }

func (m *BaseMaterial) Name() string { return m.name }

// SetName sets the material name.
func (m *BaseMaterial) SetName(name string) { m.name = name }

func (m *BaseMaterial) LightType() LightType { return m.lightType }

// SetLightType sets the shading model.
func (m *BaseMaterial) SetLightType(t LightType) { m.lightType = t }

func (m *BaseMaterial) State() *BaseMaterial { return m }

// CullFace reports whether face culling is enabled.
func (m *BaseMaterial) CullFace() bool { return m.cullFace }

// CullFaceType returns the culled face, wgpu.CullModeFront or wgpu.CullModeBack.
func (m *BaseMaterial) CullFaceType() wgpu.CullMode { return m.cullFaceType }

// Side returns the rendered side.
func (m *BaseMaterial) Side() Side { return m.side }

// Transparent reports whether the transparency macro is active.
func (m *BaseMaterial) Transparent() bool { return m.transparent }

// SetCullFace enables or disables face culling. Disabling renders both sides;
// enabling re-derives the side from the current cull face type.
//
// Parameters:
//   - enabled: the culling state
func (m *BaseMaterial) SetCullFace(enabled bool) {
	m.cullFace = enabled
	if enabled {
		m.SetCullFaceType(m.cullFaceType)
	} else {
		m.side = SideFrontAndBack
	}
}

// SetCullFaceType sets which face is culled. While culling is enabled the rendered side
// becomes the opposite face.
//
// Parameters:
//   - face: wgpu.CullModeFront or wgpu.CullModeBack
func (m *BaseMaterial) SetCullFaceType(face wgpu.CullMode) {
	m.cullFaceType = face
	if !m.cullFace {
		return
	}
	switch face {
	case wgpu.CullModeBack:
		m.side = SideFront
	case wgpu.CullModeFront:
		m.side = SideBack
	}
}

// SetSide sets the rendered side. FRONT_AND_BACK disables culling; FRONT and BACK enable it
// and cull the opposite face. Setting the current side is a no-op.
//
// Parameters:
//   - side: the side to render
func (m *BaseMaterial) SetSide(side Side) {
	if m.side == side {
		return
	}
	m.side = side

	if side == SideFrontAndBack {
		m.cullFace = false
		return
	}

	m.cullFace = true
	switch side {
	case SideFront:
		m.cullFaceType = wgpu.CullModeBack
	case SideBack:
		m.cullFaceType = wgpu.CullModeFront
	}
}

// SetTransparent toggles the transparency macro. Enabling turns blending on with premultiplied-over
// factors (ONE, ONE_MINUS_SRC_ALPHA for color and alpha) and disables depth writes; disabling reverses both.
// Setting the current value is a no-op.
//
// Parameters:
//   - transparent: the transparency state
func (m *BaseMaterial) SetTransparent(transparent bool) {
	if m.transparent == transparent {
		return
	}
	m.transparent = transparent

	if transparent {
		m.Blend = true
		m.BlendSrc = wgpu.BlendFactorOne
		m.BlendDst = wgpu.BlendFactorOneMinusSrcAlpha
		m.BlendSrcAlpha = wgpu.BlendFactorOne
		m.BlendDstAlpha = wgpu.BlendFactorOneMinusSrcAlpha
		m.DepthMask = false
	} else {
		m.Blend = false
		m.DepthMask = true
	}
}

// CullMode returns the pipeline cull mode derived from the culling state.
func (m *BaseMaterial) CullMode() wgpu.CullMode {
	if !m.cullFace {
		return wgpu.CullModeNone
	}
	return m.cullFaceType
}

// BlendState returns the pipeline blend state, or nil when blending is disabled.
func (m *BaseMaterial) BlendState() *wgpu.BlendState {
	if !m.Blend {
		return nil
	}
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			Operation: m.BlendEquation,
			SrcFactor: m.BlendSrc,
			DstFactor: m.BlendDst,
		},
		Alpha: wgpu.BlendComponent{
			Operation: m.BlendEquationAlpha,
			SrcFactor: m.BlendSrcAlpha,
			DstFactor: m.BlendDstAlpha,
		},
	}
}

// DepthCompare returns the pipeline depth comparison, Always when depth testing is disabled.
func (m *BaseMaterial) DepthCompare() wgpu.CompareFunction {
	if !m.DepthTest {
		return wgpu.CompareFunctionAlways
	}
	return m.DepthFunc
}

func (m *BaseMaterial) Textures() map[string]*texture.Texture {
	out := make(map[string]*texture.Texture)
	addTexture(out, "normalMap", m.NormalMap)
	addTexture(out, "parallaxMap", m.ParallaxMap)
	return out
}

func (m *BaseMaterial) GetRenderOption(opt RenderOption) RenderOption {
	if opt == nil {
		opt = RenderOption{}
	}

	opt.Set(OptionLightTypePref + string(m.lightType))
	opt[OptionSide] = int(m.side)

	if opt.Has(OptionHasLight) {
		opt.Set(OptionHasNormal)
		if m.NormalMap != nil {
			opt.Set(OptionHasNormalMap)
			opt.Set(OptionHasTexcoord0)
		}
	}

	if m.AlphaCutoff > 0 {
		opt.Set(OptionAlphaCutoff)
	}

	return opt
}

func addTexture(out map[string]*texture.Texture, name string, t *texture.Texture) {
	if t != nil {
		out[name] = t
	}
}

func addChannel(out map[string]*texture.Texture, name string, v ColorOrTexture) {
	if t, ok := v.Texture(); ok {
		out[name] = t
	}
}
