package model

import (
	"errors"
	"fmt"
)

// Attribute slot names on a Geometry.
const (
	SlotVertices    = "vertices"
	SlotNormals     = "normals"
	SlotUvs         = "uvs"
	SlotUvs1        = "uvs1"
	SlotTangents    = "tangents"
	SlotColors      = "colors"
	SlotSkinIndices = "skinIndices"
	SlotSkinWeights = "skinWeights"
)

// Decode matrix field names. A slot has a decode matrix field only if it can be dequantized in the shader.
const (
	DecodeMatPosition = "positionDecodeMat"
	DecodeMatUv       = "uvDecodeMat"
	DecodeMatUv1      = "uv1DecodeMat"
	DecodeMatNormal   = "normalDecodeMat"
)

// ErrElementCountMismatch is returned by Validate when populated slots disagree on element count.
var ErrElementCountMismatch = errors.New("geometry attribute element counts differ")

// Geometry holds the vertex attributes, indices and morph targets of a single primitive.
type Geometry struct {
	// Mode is the primitive topology code (4 = TRIANGLES).
	Mode int

	Vertices    *GeometryData
	Normals     *GeometryData
	Uvs         *GeometryData
	Uvs1        *GeometryData
	Tangents    *GeometryData
	Colors      *GeometryData
	SkinIndices *GeometryData
	SkinWeights *GeometryData

	// Indices is the optional index buffer.
	Indices *GeometryData

	// PositionDecodeMat, UvDecodeMat, Uv1DecodeMat and NormalDecodeMat hold deferred dequantization matrices.
	PositionDecodeMat []float32
	UvDecodeMat       []float32
	Uv1DecodeMat      []float32
	NormalDecodeMat   []float32

	// Morph maps a target semantic slot (vertices, normals, tangents) to one GeometryData per morph target, in target order.
	Morph map[string][]*GeometryData

	// Weights holds the default morph weights, one per target.
	Weights []float32
}

// NewGeometry creates an empty triangle geometry.
func NewGeometry() *Geometry {
	return &Geometry{Mode: 4}
}

func (g *Geometry) slotPtr(name string) **GeometryData {
	switch name {
	case SlotVertices:
		return &g.Vertices
	case SlotNormals:
		return &g.Normals
	case SlotUvs:
		return &g.Uvs
	case SlotUvs1:
		return &g.Uvs1
	case SlotTangents:
		return &g.Tangents
	case SlotColors:
		return &g.Colors
	case SlotSkinIndices:
		return &g.SkinIndices
	case SlotSkinWeights:
		return &g.SkinWeights
	}
	return nil
}

// Slot returns the data bound to an attribute slot, or nil if the slot is empty or unknown.
func (g *Geometry) Slot(name string) *GeometryData {
	if p := g.slotPtr(name); p != nil {
		return *p
	}
	return nil
}

// SetSlot binds data to an attribute slot.
//
// Parameters:
//   - name: one of the Slot* constants
//   - data: the attribute data
//
// Returns:
//   - error: an error if the slot name is unknown
func (g *Geometry) SetSlot(name string, data *GeometryData) error {
	p := g.slotPtr(name)
	if p == nil {
		return fmt.Errorf("unknown geometry slot %q", name)
	}
	*p = data
	return nil
}

// SetDecodeMatrix stores a deferred dequantization matrix under its field name.
//
// Parameters:
//   - field: one of the DecodeMat* constants
//   - m: the column-major decode matrix
//
// Returns:
//   - error: an error if the field name is unknown
func (g *Geometry) SetDecodeMatrix(field string, m []float32) error {
	switch field {
	case DecodeMatPosition:
		g.PositionDecodeMat = m
	case DecodeMatUv:
		g.UvDecodeMat = m
	case DecodeMatUv1:
		g.Uv1DecodeMat = m
	case DecodeMatNormal:
		g.NormalDecodeMat = m
	default:
		return fmt.Errorf("unknown decode matrix field %q", field)
	}
	return nil
}

// AddMorphTarget appends the data of one morph target to the list of a slot.
func (g *Geometry) AddMorphTarget(slot string, data *GeometryData) {
	if g.Morph == nil {
		g.Morph = make(map[string][]*GeometryData)
	}
	g.Morph[slot] = append(g.Morph[slot], data)
}

// VertexCount returns the element count of the populated slots, or 0 if none is populated.
func (g *Geometry) VertexCount() int {
	for _, name := range slotOrder {
		if d := g.Slot(name); d != nil {
			return d.Count
		}
	}
	return 0
}

var slotOrder = []string{SlotVertices, SlotNormals, SlotUvs, SlotUvs1, SlotTangents, SlotColors, SlotSkinIndices, SlotSkinWeights}

// Validate checks that every populated slot and every morph target agrees on element count,
// and that there is one default weight per morph target.
//
// Returns:
//   - error: ErrElementCountMismatch describing the first disagreeing slot, or nil
func (g *Geometry) Validate() error {
	count := -1
	check := func(name string, d *GeometryData) error {
		if d == nil {
			return nil
		}
		if count < 0 {
			count = d.Count
			return nil
		}
		if d.Count != count {
			return fmt.Errorf("%w: %s has %d elements, expected %d", ErrElementCountMismatch, name, d.Count, count)
		}
		return nil
	}

	for _, name := range slotOrder {
		if err := check(name, g.Slot(name)); err != nil {
			return err
		}
	}

	targets := 0
	for name, list := range g.Morph {
		for i, d := range list {
			if err := check(fmt.Sprintf("morph %s[%d]", name, i), d); err != nil {
				return err
			}
		}
		targets = max(targets, len(list))
	}
	if targets > 0 && len(g.Weights) != targets {
		return fmt.Errorf("morph weights: have %d, expected %d", len(g.Weights), targets)
	}

	return nil
}
