package loader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

var (
	// ErrUnknownComponentType is returned when an accessor declares a component type outside the supported table.
	ErrUnknownComponentType = model.ErrUnknownComponentType

	// ErrUnknownAccessorType is returned when an accessor declares an element type outside the supported table.
	ErrUnknownAccessorType = errors.New("unknown accessor element type")
)

// accessorTypeSizes maps accessor element types to component counts.
var accessorTypeSizes = map[string]int{
	"SCALAR": 1,
	"VEC2":   2,
	"VEC3":   3,
	"VEC4":   4,
	"MAT2":   4,
	"MAT3":   9,
	"MAT4":   16,
}

type accessorKey struct {
	id             string
	decodeInShader bool
}

type viewKey struct {
	id            string
	componentType model.ComponentType
}

// accessorResolver turns accessors into typed GeometryData. Results are memoized by accessor id and decode
// mode, so resolving the same accessor twice yields the same pointer. Buffers must be fully loaded before
// the first Resolve.
type accessorResolver struct {
	mu sync.Mutex

	doc     *gltfDocument
	buffers map[string][]byte

	memo  map[accessorKey]*model.GeometryData
	views map[viewKey]model.ComponentData
}

func newAccessorResolver(doc *gltfDocument, buffers map[string][]byte) *accessorResolver {
	return &accessorResolver{
		doc:     doc,
		buffers: buffers,
		memo:    make(map[accessorKey]*model.GeometryData),
		views:   make(map[viewKey]model.ComponentData),
	}
}

// Resolve returns the data of an accessor.
//
// Parameters:
//   - id: the accessor id
//   - decodeInShader: leave quantized data untouched and attach its decode matrix instead of decoding it
//
// Returns:
//   - *model.GeometryData: the memoized data
//   - error: ErrUnknownComponentType, ErrUnknownAccessorType, or a range error, wrapped with the accessor id
func (r *accessorResolver) Resolve(id string, decodeInShader bool) (*model.GeometryData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.doc.Accessors.Get(id)
	if !ok {
		return nil, fmt.Errorf("accessor %s not found", id)
	}

	ct := model.ComponentType(acc.ComponentType)
	if !ct.Valid() {
		return nil, fmt.Errorf("accessor %s: %w: %d", id, ErrUnknownComponentType, acc.ComponentType)
	}
	size, ok := accessorTypeSizes[acc.Type]
	if !ok {
		return nil, fmt.Errorf("accessor %s: %w: %q", id, ErrUnknownAccessorType, acc.Type)
	}

	var quant gltfQuantizedAttributes
	hasQuant, err := acc.Extensions.decode(extQuantizedAttributes, &quant)
	if err != nil {
		return nil, fmt.Errorf("accessor %s: %w", id, err)
	}
	hasQuant = hasQuant && len(quant.DecodeMatrix) > 0

	key := accessorKey{id: id, decodeInShader: decodeInShader && hasQuant}
	if data, ok := r.memo[key]; ok {
		return data, nil
	}

	data, err := r.read(id, acc, ct, size)
	if err != nil {
		return nil, fmt.Errorf("accessor %s: %w", id, err)
	}

	if acc.Sparse != nil {
		if data, err = r.applySparse(acc, ct, data); err != nil {
			return nil, fmt.Errorf("accessor %s: failed to apply sparse values: %w", id, err)
		}
	}

	if hasQuant {
		if key.decodeInShader {
			data.DecodeMatrix = quant.DecodeMatrix
		} else if data, err = dequantize(data, quant.DecodeMatrix); err != nil {
			return nil, fmt.Errorf("accessor %s: %w", id, err)
		}
	}

	r.memo[key] = data
	return data, nil
}

// Float32s resolves an accessor eagerly and flattens it.
func (r *accessorResolver) Float32s(id string) ([]float32, int, error) {
	data, err := r.Resolve(id, false)
	if err != nil {
		return nil, 0, err
	}
	return data.Float32s(), data.Size, nil
}

// read builds the base data of an accessor: a strided view over the whole buffer view when the stride
// exceeds the element size, a tight slice otherwise, and zeros when no buffer view is given.
func (r *accessorResolver) read(id string, acc *gltfAccessor, ct model.ComponentType, size int) (*model.GeometryData, error) {
	viewID, ok := refOf(acc.BufferView)
	if !ok {
		zeros, err := model.MakeComponentData(ct, acc.Count*size)
		if err != nil {
			return nil, err
		}
		return &model.GeometryData{Data: zeros, Size: size, Count: acc.Count, Normalized: acc.Normalized}, nil
	}

	viewBytes, view, err := r.viewBytes(viewID)
	if err != nil {
		return nil, err
	}

	compSize := ct.Size()
	elemSize := compSize * size
	stride := view.ByteStride
	if stride == 0 {
		stride = acc.ByteStride
	}

	if stride > elemSize {
		if acc.Count > 0 {
			if need := acc.ByteOffset + (acc.Count-1)*stride + elemSize; need > len(viewBytes) {
				return nil, fmt.Errorf("strided data needs %d bytes, buffer view %s has %d", need, viewID, len(viewBytes))
			}
		}
		shared, err := r.viewComponents(viewID, ct, viewBytes)
		if err != nil {
			return nil, err
		}
		return &model.GeometryData{
			Data:       shared,
			Size:       size,
			Count:      acc.Count,
			Stride:     stride,
			Offset:     acc.ByteOffset,
			BufferView: viewID,
			Normalized: acc.Normalized,
		}, nil
	}

	if acc.ByteOffset > len(viewBytes) {
		return nil, fmt.Errorf("byte offset %d outside buffer view %s", acc.ByteOffset, viewID)
	}
	comps, err := model.NewComponentData(ct, viewBytes[acc.ByteOffset:], acc.Count*size)
	if err != nil {
		return nil, err
	}
	return &model.GeometryData{Data: comps, Size: size, Count: acc.Count, Normalized: acc.Normalized}, nil
}

// viewComponents types a whole buffer view once per component type so interleaved accessors share storage.
func (r *accessorResolver) viewComponents(viewID string, ct model.ComponentType, viewBytes []byte) (model.ComponentData, error) {
	key := viewKey{id: viewID, componentType: ct}
	if data, ok := r.views[key]; ok {
		return data, nil
	}
	data, err := model.NewComponentData(ct, viewBytes, len(viewBytes)/ct.Size())
	if err != nil {
		return nil, err
	}
	r.views[key] = data
	return data, nil
}

// viewBytes returns the bytes a buffer view covers.
func (r *accessorResolver) viewBytes(viewID string) ([]byte, *gltfBufferView, error) {
	view, ok := r.doc.BufferViews.Get(viewID)
	if !ok {
		return nil, nil, fmt.Errorf("buffer view %s not found", viewID)
	}
	buf, ok := r.buffers[view.Buffer.String()]
	if !ok {
		return nil, nil, fmt.Errorf("buffer %s of buffer view %s is not loaded", view.Buffer, viewID)
	}
	end := view.ByteOffset + view.ByteLength
	if view.ByteOffset < 0 || end > len(buf) {
		return nil, nil, fmt.Errorf("buffer view %s range [%d, %d) exceeds buffer %s of %d bytes",
			viewID, view.ByteOffset, end, view.Buffer, len(buf))
	}
	return buf[view.ByteOffset:end], view, nil
}

// applySparse copies base into flat storage and overwrites the indexed elements.
func (r *accessorResolver) applySparse(acc *gltfAccessor, ct model.ComponentType, base *model.GeometryData) (*model.GeometryData, error) {
	sp := acc.Sparse
	out := base.Compact()
	out.Normalized = acc.Normalized
	if sp.Count == 0 {
		return out, nil
	}

	idxType := model.ComponentType(sp.Indices.ComponentType)
	if !idxType.Valid() {
		return nil, fmt.Errorf("sparse indices: %w: %d", ErrUnknownComponentType, sp.Indices.ComponentType)
	}

	idxBytes, _, err := r.viewBytes(sp.Indices.BufferView.String())
	if err != nil {
		return nil, err
	}
	if sp.Indices.ByteOffset > len(idxBytes) {
		return nil, fmt.Errorf("sparse indices offset %d out of range", sp.Indices.ByteOffset)
	}
	indices, err := model.NewComponentData(idxType, idxBytes[sp.Indices.ByteOffset:], sp.Count)
	if err != nil {
		return nil, fmt.Errorf("sparse indices: %w", err)
	}

	valBytes, _, err := r.viewBytes(sp.Values.BufferView.String())
	if err != nil {
		return nil, err
	}
	if sp.Values.ByteOffset > len(valBytes) {
		return nil, fmt.Errorf("sparse values offset %d out of range", sp.Values.ByteOffset)
	}
	values, err := model.NewComponentData(ct, valBytes[sp.Values.ByteOffset:], sp.Count*out.Size)
	if err != nil {
		return nil, fmt.Errorf("sparse values: %w", err)
	}

	for i := 0; i < sp.Count; i++ {
		target := int(indices.Float(i))
		if target < 0 || target >= out.Count {
			return nil, fmt.Errorf("sparse index %d outside %d elements", target, out.Count)
		}
		for c := 0; c < out.Size; c++ {
			out.Data.SetFloat(target*out.Size+c, values.Float(i*out.Size+c))
		}
	}
	return out, nil
}

// dequantize applies a column-major (n+1)x(n+1) decode matrix to every element as M * [v, 1].
// The result is flat float32 data with the same element count and size.
func dequantize(data *model.GeometryData, m []float32) (*model.GeometryData, error) {
	n := data.Size
	dim := n + 1
	if len(m) != dim*dim {
		return nil, fmt.Errorf("decode matrix of %d values does not match element size %d", len(m), n)
	}

	out := make(model.Components[float32], data.Count*n)
	for i := 0; i < data.Count; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for k := 0; k < dim; k++ {
				v := float32(1)
				if k < n {
					v = data.Get(i, k)
				}
				sum += m[k*dim+j] * v
			}
			out[i*n+j] = sum
		}
	}
	return &model.GeometryData{Data: out, Size: n, Count: data.Count}, nil
}
