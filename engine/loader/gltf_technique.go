package loader

import (
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

// GL capability codes of technique states.enable.
const (
	glBlend     = 3042
	glDepthTest = 2929
	glCullFace  = 2884
)

var glBlendOperations = map[int]wgpu.BlendOperation{
	32774: wgpu.BlendOperationAdd,
	32778: wgpu.BlendOperationSubtract,
	32779: wgpu.BlendOperationReverseSubtract,
	32775: wgpu.BlendOperationMin,
	32776: wgpu.BlendOperationMax,
}

var glBlendFactors = map[int]wgpu.BlendFactor{
	0:     wgpu.BlendFactorZero,
	1:     wgpu.BlendFactorOne,
	768:   wgpu.BlendFactorSrc,
	769:   wgpu.BlendFactorOneMinusSrc,
	770:   wgpu.BlendFactorSrcAlpha,
	771:   wgpu.BlendFactorOneMinusSrcAlpha,
	772:   wgpu.BlendFactorDstAlpha,
	773:   wgpu.BlendFactorOneMinusDstAlpha,
	774:   wgpu.BlendFactorDst,
	775:   wgpu.BlendFactorOneMinusDst,
	776:   wgpu.BlendFactorSrcAlphaSaturated,
	32769: wgpu.BlendFactorConstant,
	32770: wgpu.BlendFactorOneMinusConstant,
	32771: wgpu.BlendFactorConstant,
	32772: wgpu.BlendFactorOneMinusConstant,
}

var glCompareFunctions = map[int]wgpu.CompareFunction{
	512: wgpu.CompareFunctionNever,
	513: wgpu.CompareFunctionLess,
	514: wgpu.CompareFunctionEqual,
	515: wgpu.CompareFunctionLessEqual,
	516: wgpu.CompareFunctionGreater,
	517: wgpu.CompareFunctionNotEqual,
	518: wgpu.CompareFunctionGreaterEqual,
	519: wgpu.CompareFunctionAlways,
}

var glCullModes = map[int]wgpu.CullMode{
	1028: wgpu.CullModeFront,
	1029: wgpu.CullModeBack,
}

var glFrontFaces = map[int]wgpu.FrontFace{
	2304: wgpu.FrontFaceCW,
	2305: wgpu.FrontFaceCCW,
}

// lookup translates a GL enum argument, keeping fallback for missing arguments and unknown codes.
func lookup[T any](table map[int]T, args []float64, i int, fallback T) T {
	if i >= len(args) {
		return fallback
	}
	if v, ok := table[int(args[i])]; ok {
		return v
	}
	return fallback
}

// applyTechnique overrides the render state of a material with the fixed-function states of a 1.0 technique.
// A technique without states leaves the material untouched. Listed capabilities are enabled; capabilities
// absent from states.enable keep the material's value. The rendered side is re-derived last.
func applyTechnique(st *material.BaseMaterial, tech *gltfTechnique) {
	if tech.States == nil {
		return
	}

	cullFace := st.CullFace()
	for _, code := range tech.States.Enable {
		switch code {
		case glBlend:
			st.Blend = true
		case glDepthTest:
			st.DepthTest = true
		case glCullFace:
			cullFace = true
		}
	}
	cullFaceType := st.CullFaceType()

	for name, args := range tech.States.Functions {
		switch name {
		case "blendEquationSeparate":
			st.BlendEquation = lookup(glBlendOperations, args, 0, st.BlendEquation)
			st.BlendEquationAlpha = lookup(glBlendOperations, args, 1, st.BlendEquationAlpha)
		case "blendFuncSeparate":
			st.BlendSrc = lookup(glBlendFactors, args, 0, st.BlendSrc)
			st.BlendDst = lookup(glBlendFactors, args, 1, st.BlendDst)
			st.BlendSrcAlpha = lookup(glBlendFactors, args, 2, st.BlendSrcAlpha)
			st.BlendDstAlpha = lookup(glBlendFactors, args, 3, st.BlendDstAlpha)
		case "depthFunc":
			st.DepthFunc = lookup(glCompareFunctions, args, 0, st.DepthFunc)
		case "depthMask":
			if len(args) > 0 {
				st.DepthMask = args[0] != 0
			}
		case "cullFace":
			cullFaceType = lookup(glCullModes, args, 0, cullFaceType)
		case "frontFace":
			st.FrontFace = lookup(glFrontFaces, args, 0, st.FrontFace)
		case "depthRange":
			if len(args) >= 2 {
				st.DepthRange = [2]float32{float32(args[0]), float32(args[1])}
			}
		}
	}

	st.SetCullFaceType(cullFaceType)
	st.SetCullFace(cullFace)
}
