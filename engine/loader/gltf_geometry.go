package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// attributeSlot is the geometry slot an attribute semantic fills and the decode matrix field it may defer to.
type attributeSlot struct {
	slot      string
	decodeMat string
}

// attributeSlots maps glTF attribute semantics (both generations) to geometry slots.
var attributeSlots = map[string]attributeSlot{
	"POSITION":   {slot: model.SlotVertices, decodeMat: model.DecodeMatPosition},
	"TEXCOORD_0": {slot: model.SlotUvs, decodeMat: model.DecodeMatUv},
	"TEXCOORD_1": {slot: model.SlotUvs1, decodeMat: model.DecodeMatUv1},
	"NORMAL":     {slot: model.SlotNormals, decodeMat: model.DecodeMatNormal},
	"JOINT":      {slot: model.SlotSkinIndices},
	"JOINTS_0":   {slot: model.SlotSkinIndices},
	"WEIGHT":     {slot: model.SlotSkinWeights},
	"WEIGHTS_0":  {slot: model.SlotSkinWeights},
	"TANGENT":    {slot: model.SlotTangents},
	"COLOR_0":    {slot: model.SlotColors},
}

type primitiveKey struct {
	mesh  string
	index int
}

// sortedSemantics returns attribute names in a stable order.
func sortedSemantics[V any](attrs map[string]V) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildGeometry assembles the geometry of one primitive. A primitive whose extensions are claimed by a
// PrimitiveParser is built by that handler instead.
//
// Parameters:
//   - ctx: passed to extension handlers
//   - key: the mesh id and primitive index, used in diagnostics
//   - prim: the primitive record
//   - weights: the default morph weights of the mesh, may be nil
//
// Returns:
//   - *model.Geometry: the geometry
//   - error: an error if an accessor cannot be resolved or the slots disagree on element count
func (p *gltfParser) buildGeometry(ctx context.Context, key primitiveKey, prim *gltfPrimitive, weights []float32) (*model.Geometry, error) {
	for _, name := range sortedSemantics(prim.Extensions) {
		h, ok := p.extensionHandler(name)
		if !ok {
			continue
		}
		pp, ok := h.(PrimitiveParser)
		if !ok {
			continue
		}
		g, err := pp.ParsePrimitive(ctx, prim.Extensions[name], p.pc)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", name, err)
		}
		if g != nil {
			return g, nil
		}
	}

	g := model.NewGeometry()
	if prim.Mode != nil {
		g.Mode = *prim.Mode
	}

	if id, ok := refOf(prim.Indices); ok {
		indices, err := p.resolver.Resolve(id, false)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		g.Indices = indices
	}

	for _, name := range sortedSemantics(prim.Attributes) {
		info, ok := attributeSlots[name]
		if !ok {
			p.logger.Warn("unknown attribute semantic", "semantic", name, "mesh", key.mesh, "primitive", key.index)
			continue
		}

		deferDecode := p.unquantizeInShader && info.decodeMat != ""
		data, err := p.resolver.Resolve(prim.Attributes[name].String(), deferDecode)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		if err := g.SetSlot(info.slot, data); err != nil {
			return nil, err
		}
		if deferDecode && data.DecodeMatrix != nil {
			if err := g.SetDecodeMatrix(info.decodeMat, data.DecodeMatrix); err != nil {
				return nil, err
			}
		}
	}

	if len(prim.Targets) > 0 {
		for i, target := range prim.Targets {
			for _, name := range sortedSemantics(target) {
				info, ok := attributeSlots[name]
				if !ok {
					p.logger.Warn("unknown morph target semantic", "semantic", name, "mesh", key.mesh, "primitive", key.index, "target", i)
					continue
				}
				data, err := p.resolver.Resolve(target[name].String(), false)
				if err != nil {
					return nil, fmt.Errorf("morph target %d %s: %w", i, name, err)
				}
				g.AddMorphTarget(info.slot, data)
			}
		}

		if len(weights) > 0 {
			g.Weights = append([]float32(nil), weights...)
		} else {
			g.Weights = make([]float32, len(prim.Targets))
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
