package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flat(size int, values ...float32) *GeometryData {
	return &GeometryData{Data: Components[float32](values), Size: size, Count: len(values) / size}
}

func TestGeometryDataStridedGet(t *testing.T) {
	// two VEC2 elements interleaved with one padding float each, starting after a leading float
	g := &GeometryData{
		Data:   Components[float32]{9, 1, 2, 9, 3, 4, 9},
		Size:   2,
		Count:  2,
		Stride: 12,
		Offset: 4,
	}
	assert.False(t, g.IsFlat())
	assert.Equal(t, float32(3), g.Get(1, 0))
	assert.Equal(t, []float32{1, 2, 3, 4}, g.Float32s())

	g.Set(0, 1, 7)
	assert.Equal(t, []float32{1, 7}, g.Element(0))
}

func TestGeometryDataCompact(t *testing.T) {
	src := Components[uint16]{0, 5, 6, 0, 7, 8}
	g := &GeometryData{Data: src, Size: 2, Count: 2, Stride: 6, Offset: 2, Normalized: true, DecodeMatrix: []float32{1, 0, 0, 1}}

	out := g.Compact()
	assert.True(t, out.IsFlat())
	assert.Equal(t, ComponentTypeUnsignedShort, out.Data.Type())
	assert.Equal(t, []float32{5, 6, 7, 8}, out.Float32s())
	assert.True(t, out.Normalized)

	out.Set(0, 0, 1)
	out.DecodeMatrix[0] = 2
	assert.Equal(t, uint16(5), src[1])
	assert.Equal(t, float32(1), g.DecodeMatrix[0])

	f := flat(1, 1, 2)
	c := f.Compact()
	c.Set(0, 0, 42)
	assert.Equal(t, float32(1), f.Get(0, 0))
}

func TestGeometryDataUint32s(t *testing.T) {
	g := &GeometryData{Data: Components[uint8]{0, 1, 2}, Size: 1, Count: 3}
	assert.Equal(t, []uint32{0, 1, 2}, g.Uint32s())
}

func TestGeometrySlots(t *testing.T) {
	g := NewGeometry()
	assert.Equal(t, 4, g.Mode)
	assert.Equal(t, 0, g.VertexCount())

	require.NoError(t, g.SetSlot(SlotNormals, flat(3, 0, 0, 1, 0, 0, 1)))
	assert.Same(t, g.Normals, g.Slot(SlotNormals))
	assert.Equal(t, 2, g.VertexCount())
	assert.Error(t, g.SetSlot("bogus", flat(1, 0)))
	assert.Nil(t, g.Slot("bogus"))

	require.NoError(t, g.SetDecodeMatrix(DecodeMatNormal, []float32{1}))
	assert.Equal(t, []float32{1}, g.NormalDecodeMat)
	assert.Error(t, g.SetDecodeMatrix("bogus", nil))
}

func TestGeometryValidate(t *testing.T) {
	t.Run("consistent", func(t *testing.T) {
		g := NewGeometry()
		require.NoError(t, g.SetSlot(SlotVertices, flat(3, 0, 0, 0, 1, 1, 1)))
		require.NoError(t, g.SetSlot(SlotUvs, flat(2, 0, 0, 1, 1)))
		g.AddMorphTarget(SlotVertices, flat(3, 0, 1, 0, 0, 1, 0))
		g.Weights = []float32{0}
		assert.NoError(t, g.Validate())
	})

	t.Run("attribute mismatch", func(t *testing.T) {
		g := NewGeometry()
		require.NoError(t, g.SetSlot(SlotVertices, flat(3, 0, 0, 0, 1, 1, 1)))
		require.NoError(t, g.SetSlot(SlotUvs, flat(2, 0, 0)))
		assert.ErrorIs(t, g.Validate(), ErrElementCountMismatch)
	})

	t.Run("morph mismatch", func(t *testing.T) {
		g := NewGeometry()
		require.NoError(t, g.SetSlot(SlotVertices, flat(3, 0, 0, 0, 1, 1, 1)))
		g.AddMorphTarget(SlotVertices, flat(3, 0, 1, 0))
		g.Weights = []float32{0}
		assert.ErrorIs(t, g.Validate(), ErrElementCountMismatch)
	})

	t.Run("weights", func(t *testing.T) {
		g := NewGeometry()
		require.NoError(t, g.SetSlot(SlotVertices, flat(3, 0, 0, 0)))
		g.AddMorphTarget(SlotVertices, flat(3, 1, 0, 0))
		g.AddMorphTarget(SlotVertices, flat(3, 0, 1, 0))
		g.Weights = []float32{0}
		assert.Error(t, g.Validate())
	})
}

func TestNewComponentData(t *testing.T) {
	data, err := NewComponentData(ComponentTypeUnsignedShort, []byte{1, 0, 2, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, Components[uint16]{1, 2}, data)

	_, err = NewComponentData(ComponentType(1), []byte{0}, 1)
	assert.ErrorIs(t, err, ErrUnknownComponentType)

	_, err = NewComponentData(ComponentTypeFloat, []byte{0, 0}, 1)
	assert.Error(t, err)

	_, err = MakeComponentData(ComponentType(7), 1)
	assert.ErrorIs(t, err, ErrUnknownComponentType)
}
