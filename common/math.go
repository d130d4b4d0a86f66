package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Mat4FromSlice builds a column-major 4x4 matrix from the first 16 values of a slice.
// Shorter slices leave the remaining entries at their identity values.
//
// Parameters:
//   - values: column-major matrix values
//
// Returns:
//   - mgl32.Mat4: the matrix
func Mat4FromSlice(values []float32) mgl32.Mat4 {
	m := mgl32.Ident4()
	copy(m[:], values)
	return m
}

// ComposeTRS builds a model matrix as T * R * S.
//
// Parameters:
//   - t: translation
//   - r: rotation quaternion
//   - s: scale
//
// Returns:
//   - mgl32.Mat4: the composed matrix
func ComposeTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
}

// DecomposeTRS splits an affine matrix without shear into translation, rotation and scale.
// A negative determinant is folded into the X scale.
//
// Parameters:
//   - m: the affine matrix
//
// Returns:
//   - mgl32.Vec3: translation
//   - mgl32.Quat: rotation
//   - mgl32.Vec3: scale
func DecomposeTRS(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := m.Col(3).Vec3()
	s := mgl32.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	if m.Det() < 0 {
		s[0] = -s[0]
	}

	rot := mgl32.Ident3()
	for c := 0; c < 3; c++ {
		if s[c] == 0 {
			continue
		}
		col := m.Col(c).Vec3().Mul(1 / s[c])
		rot.SetCol(c, col)
	}

	return t, mgl32.Mat4ToQuat(rot.Mat4()), s
}

// TransformPoint applies an affine matrix to a point.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// SliceToBytes converts any slice to a byte slice view sharing the same memory.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// BytesToSlice reinterprets a little-endian byte region as a slice of n elements of T.
// When the region start is aligned to T's size the result shares memory with data;
// otherwise the bytes are first copied into freshly allocated, aligned storage.
//
// Parameters:
//   - data: source bytes, at least n * sizeof(T) long
//   - n: number of elements
//
// Returns:
//   - []T: the typed view or copy
//   - bool: true if the result shares memory with data
func BytesToSlice[T any](data []byte, n int) ([]T, bool) {
	if n == 0 {
		return []T{}, false
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	data = data[:n*size]
	if uintptr(unsafe.Pointer(&data[0]))%uintptr(size) == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n), true
	}
	out := make([]T, n)
	copy(SliceToBytes(out), data)
	return out, false
}
