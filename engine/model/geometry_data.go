package model

// GeometryData is a typed numeric sequence interpreted as Count elements of Size components.
//
// When Stride and Offset are both 0 the data is flat: element i occupies Data[i*Size : (i+1)*Size].
// Otherwise Data is a view over a whole buffer view shared with other accessors, and element i
// starts at byte Offset + i*Stride within it. Strided views are never copied, so writers must
// Clone before mutating.
type GeometryData struct {
	// Data holds the components.
	Data ComponentData

	// Size is the number of components per element (1 for SCALAR, 3 for VEC3, 16 for MAT4).
	Size int

	// Count is the number of elements.
	Count int

	// Stride is the byte distance between elements of a strided view, 0 when flat.
	Stride int

	// Offset is the byte offset of the first element within a strided view, 0 when flat.
	Offset int

	// BufferView identifies the shared buffer view of a strided view, so interleaved
	// attributes can be recognized as aliasing the same storage.
	BufferView string

	// Normalized marks integer data that maps to [0, 1] or [-1, 1].
	Normalized bool

	// DecodeMatrix is the column-major (Size+1)x(Size+1) dequantization matrix left for the shader to apply.
	// Nil when the data is already decoded or was never quantized.
	DecodeMatrix []float32
}

// IsFlat reports whether elements are tightly packed from the start of Data.
func (g *GeometryData) IsFlat() bool {
	return g.Stride == 0 && g.Offset == 0
}

// index returns the position in Data of component c of element i.
func (g *GeometryData) index(i, c int) int {
	if g.IsFlat() {
		return i*g.Size + c
	}
	size := g.Data.Type().Size()
	return (g.Offset+i*g.Stride)/size + c
}

// Get returns component c of element i as a float32.
//
// Parameters:
//   - i: element index in [0, Count)
//   - c: component index in [0, Size)
//
// Returns:
//   - float32: the raw (not normalized, not decoded) component value
func (g *GeometryData) Get(i, c int) float32 {
	return g.Data.Float(g.index(i, c))
}

// Set stores a value into component c of element i.
//
// Parameters:
//   - i: element index in [0, Count)
//   - c: component index in [0, Size)
//   - v: the value, converted to the storage type
func (g *GeometryData) Set(i, c int, v float32) {
	g.Data.SetFloat(g.index(i, c), v)
}

// Element returns element i as a new float32 slice of length Size.
func (g *GeometryData) Element(i int) []float32 {
	out := make([]float32, g.Size)
	for c := range out {
		out[c] = g.Get(i, c)
	}
	return out
}

// Float32s flattens every element into a tightly packed float32 slice.
func (g *GeometryData) Float32s() []float32 {
	out := make([]float32, 0, g.Count*g.Size)
	for i := 0; i < g.Count; i++ {
		for c := 0; c < g.Size; c++ {
			out = append(out, g.Get(i, c))
		}
	}
	return out
}

// Uint32s flattens every element into a tightly packed uint32 slice. Used for index and joint data.
func (g *GeometryData) Uint32s() []uint32 {
	out := make([]uint32, 0, g.Count*g.Size)
	for i := 0; i < g.Count; i++ {
		for c := 0; c < g.Size; c++ {
			out = append(out, uint32(g.Get(i, c)))
		}
	}
	return out
}

// Compact returns a flat copy of g. Flat data is copied as well, so the result never aliases g.
func (g *GeometryData) Compact() *GeometryData {
	out := &GeometryData{
		Size:       g.Size,
		Count:      g.Count,
		Normalized: g.Normalized,
	}
	if g.DecodeMatrix != nil {
		out.DecodeMatrix = append([]float32(nil), g.DecodeMatrix...)
	}

	if g.IsFlat() {
		out.Data = g.Data.Clone()
		return out
	}

	data, _ := MakeComponentData(g.Data.Type(), g.Count*g.Size)
	for i := 0; i < g.Count; i++ {
		for c := 0; c < g.Size; c++ {
			data.SetFloat(i*g.Size+c, g.Get(i, c))
		}
	}
	out.Data = data
	return out
}
