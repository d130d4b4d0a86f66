package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
)

// ComponentType identifies the numeric storage type of accessor components using the glTF code table.
//
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#accessor-data-types
type ComponentType int

const (
	// ComponentTypeByte is a signed 8-bit integer.
	ComponentTypeByte ComponentType = 5120
	// ComponentTypeUnsignedByte is an unsigned 8-bit integer.
	ComponentTypeUnsignedByte ComponentType = 5121
	// ComponentTypeShort is a signed 16-bit integer.
	ComponentTypeShort ComponentType = 5122
	// ComponentTypeUnsignedShort is an unsigned 16-bit integer.
	ComponentTypeUnsignedShort ComponentType = 5123
	// ComponentTypeInt is a signed 32-bit integer. Only produced by glTF 1.0 assets.
	ComponentTypeInt ComponentType = 5124
	// ComponentTypeUnsignedInt is an unsigned 32-bit integer.
	ComponentTypeUnsignedInt ComponentType = 5125
	// ComponentTypeFloat is a 32-bit IEEE float.
	ComponentTypeFloat ComponentType = 5126
)

// ErrUnknownComponentType is returned when a component type code is not in the table.
var ErrUnknownComponentType = errors.New("unknown accessor component type")

// Size returns the byte size of a single component, or 0 for unknown codes.
func (c ComponentType) Size() int {
	switch c {
	case ComponentTypeByte, ComponentTypeUnsignedByte:
		return 1
	case ComponentTypeShort, ComponentTypeUnsignedShort:
		return 2
	case ComponentTypeInt, ComponentTypeUnsignedInt, ComponentTypeFloat:
		return 4
	}
	return 0
}

// Valid reports whether the code is a known component type.
func (c ComponentType) Valid() bool {
	return c.Size() != 0
}

// Number is the set of Go types that back accessor components.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32
}

// ComponentData is a typed numeric sequence. Concrete values are always Components[T]
// for one of the Number types, so callers can type-switch for direct slice access.
type ComponentData interface {
	// Type returns the glTF component type backing this sequence.
	Type() ComponentType

	// Len returns the number of scalar components.
	Len() int

	// Float returns the i-th component converted to float32.
	Float(i int) float32

	// SetFloat stores v into the i-th component, converting to the storage type.
	SetFloat(i int, v float32)

	// Clone returns a deep copy that does not share storage.
	Clone() ComponentData
}

// Components is a typed numeric sequence backed by a Go slice.
type Components[T Number] []T

func (c Components[T]) Type() ComponentType {
	switch any(c).(type) {
	case Components[int8]:
		return ComponentTypeByte
	case Components[uint8]:
		return ComponentTypeUnsignedByte
	case Components[int16]:
		return ComponentTypeShort
	case Components[uint16]:
		return ComponentTypeUnsignedShort
	case Components[int32]:
		return ComponentTypeInt
	case Components[uint32]:
		return ComponentTypeUnsignedInt
	}
	return ComponentTypeFloat
}

func (c Components[T]) Len() int { return len(c) }

func (c Components[T]) Float(i int) float32 { return float32(c[i]) }

func (c Components[T]) SetFloat(i int, v float32) { c[i] = T(v) }

func (c Components[T]) Clone() ComponentData {
	out := make(Components[T], len(c))
	copy(out, c)
	return out
}

// NewComponentData reinterprets n components of the given type from little-endian bytes.
// The result aliases data when the region is suitably aligned and is a copy otherwise.
//
// Parameters:
//   - t: the component type
//   - data: the source bytes
//   - n: the number of components
//
// Returns:
//   - ComponentData: the typed sequence
//   - error: ErrUnknownComponentType for an unrecognized code, or a range error if data is too short
func NewComponentData(t ComponentType, data []byte, n int) (ComponentData, error) {
	size := t.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownComponentType, int(t))
	}
	if n < 0 || n*size > len(data) {
		return nil, fmt.Errorf("component data out of range: need %d bytes, have %d", n*size, len(data))
	}

	switch t {
	case ComponentTypeByte:
		v, _ := common.BytesToSlice[int8](data, n)
		return Components[int8](v), nil
	case ComponentTypeUnsignedByte:
		return Components[uint8](data[:n:n]), nil
	case ComponentTypeShort:
		v, _ := common.BytesToSlice[int16](data, n)
		return Components[int16](v), nil
	case ComponentTypeUnsignedShort:
		v, _ := common.BytesToSlice[uint16](data, n)
		return Components[uint16](v), nil
	case ComponentTypeInt:
		v, _ := common.BytesToSlice[int32](data, n)
		return Components[int32](v), nil
	case ComponentTypeUnsignedInt:
		v, _ := common.BytesToSlice[uint32](data, n)
		return Components[uint32](v), nil
	default:
		v, _ := common.BytesToSlice[float32](data, n)
		return Components[float32](v), nil
	}
}

// MakeComponentData allocates a zero-filled sequence of n components of the given type.
func MakeComponentData(t ComponentType, n int) (ComponentData, error) {
	switch t {
	case ComponentTypeByte:
		return make(Components[int8], n), nil
	case ComponentTypeUnsignedByte:
		return make(Components[uint8], n), nil
	case ComponentTypeShort:
		return make(Components[int16], n), nil
	case ComponentTypeUnsignedShort:
		return make(Components[uint16], n), nil
	case ComponentTypeInt:
		return make(Components[int32], n), nil
	case ComponentTypeUnsignedInt:
		return make(Components[uint32], n), nil
	case ComponentTypeFloat:
		return make(Components[float32], n), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownComponentType, int(t))
}
