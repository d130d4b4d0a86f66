package common

import (
	"strconv"
	"sync/atomic"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

var idCounter atomic.Uint64

// GenerateID returns a process-unique identifier of the form "<prefix>_<n>".
// Identifiers are not content-addressed; two identical objects receive different ids.
//
// Parameters:
//   - prefix: the type name used as the id prefix (e.g. "Material", "Texture")
//
// Returns:
//   - string: the generated identifier
func GenerateID(prefix string) string {
	return prefix + "_" + strconv.FormatUint(idCounter.Add(1), 10)
}
