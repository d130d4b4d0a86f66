package pipeline

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the fixed-function render state a draw call is configured with.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// defines holds the shader permutation constants the pipeline was specialized with
	defines string

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthCompare        wgpu.CompareFunction
	depthFormat         wgpu.TextureFormat
	depthBias           int32
	depthBiasSlopeScale float32
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	colorFormat         wgpu.TextureFormat
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline defines the render state of a draw call: depth, blend, cull and topology settings
// plus the shader constants selected by a material's render options. Pipelines with equal keys are interchangeable.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Defines returns the WGSL override declarations for the pipeline's shader permutation.
	//
	// Returns:
	//   - string: the override declarations
	Defines() string

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline, or nil if blending is not enabled
	BlendState() *wgpu.BlendState

	// PrimitiveState returns the primitive assembly descriptor.
	//
	// Returns:
	//   - wgpu.PrimitiveState: the descriptor
	PrimitiveState() wgpu.PrimitiveState

	// DepthStencilState returns the depth descriptor, or nil when the pipeline has no depth attachment.
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the descriptor or nil
	DepthStencilState() *wgpu.DepthStencilState

	// ColorTargetState returns the color target descriptor.
	//
	// Returns:
	//   - wgpu.ColorTargetState: the descriptor
	ColorTargetState() wgpu.ColorTargetState
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new Pipeline interface.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		depthCompare:      wgpu.CompareFunctionLess,
		depthFormat:       wgpu.TextureFormatDepth24Plus,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		colorFormat:       wgpu.TextureFormatRGBA8Unorm,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromMaterial derives the pipeline of a draw with material m, the render options opt and the glTF draw mode.
// The key combines the options key with every render state field so equal keys always configure equally.
//
// Parameters:
//   - m: the material
//   - opt: the render options accumulated for the draw
//   - mode: the glTF primitive mode
//   - opts: additional builder options applied last, e.g. target formats
//
// Returns:
//   - Pipeline: the pipeline
//   - error: an error if the draw mode has no WebGPU topology
func FromMaterial(m material.Material, opt material.RenderOption, mode int, opts ...PipelineBuilderOption) (Pipeline, error) {
	topology, err := TopologyFromMode(mode)
	if err != nil {
		return nil, err
	}

	st := m.State()
	opt = m.GetRenderOption(opt)
	key := fmt.Sprintf("%s|%s|cull=%d,%d|depth=%t,%t,%d|blend=%v|topo=%d",
		m.LightType(), opt.Key(), st.CullMode(), st.FrontFace, st.DepthTest, st.DepthMask, st.DepthCompare(), blendKey(st.BlendState()), topology)

	base := []PipelineBuilderOption{
		WithDefines(opt.Defines()),
		WithDepthTestEnabled(st.DepthTest),
		WithDepthWriteEnabled(st.DepthMask),
		WithDepthCompare(st.DepthCompare()),
		WithCullMode(st.CullMode()),
		WithFrontFace(st.FrontFace),
		WithTopology(topology),
		WithBlendState(st.BlendState()),
	}
	return NewPipeline(key, append(base, opts...)...), nil
}

// TopologyFromMode maps a glTF primitive mode to a WebGPU topology.
// LINE_LOOP and TRIANGLE_FAN have no WebGPU equivalent.
//
// Parameters:
//   - mode: the glTF mode, 0 through 6
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology
//   - error: an error for unsupported modes
func TopologyFromMode(mode int) (wgpu.PrimitiveTopology, error) {
	switch mode {
	case 0:
		return wgpu.PrimitiveTopologyPointList, nil
	case 1:
		return wgpu.PrimitiveTopologyLineList, nil
	case 3:
		return wgpu.PrimitiveTopologyLineStrip, nil
	case 4:
		return wgpu.PrimitiveTopologyTriangleList, nil
	case 5:
		return wgpu.PrimitiveTopologyTriangleStrip, nil
	}
	return 0, fmt.Errorf("unsupported primitive mode %d", mode)
}

func blendKey(b *wgpu.BlendState) string {
	if b == nil {
		return "off"
	}
	return fmt.Sprintf("%d,%d,%d/%d,%d,%d",
		b.Color.Operation, b.Color.SrcFactor, b.Color.DstFactor,
		b.Alpha.Operation, b.Alpha.SrcFactor, b.Alpha.DstFactor)
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Defines() string {
	return p.defines
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) DepthStencilState() *wgpu.DepthStencilState {
	if p.depthFormat == wgpu.TextureFormatUndefined {
		return nil
	}
	compare := p.depthCompare
	if !p.depthTestEnabled {
		compare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:              p.depthFormat,
		DepthWriteEnabled:   p.depthWriteEnabled,
		DepthCompare:        compare,
		DepthBias:           p.depthBias,
		DepthBiasSlopeScale: p.depthBiasSlopeScale,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (p *pipeline) ColorTargetState() wgpu.ColorTargetState {
	return wgpu.ColorTargetState{
		Format:    p.colorFormat,
		Blend:     p.blendState,
		WriteMask: p.writeMask,
	}
}
