package material

import (
	"sort"
	"strconv"
	"strings"
)

// RenderOption is the set of shader permutation flags a material contributes to program selection.
// Keys are preprocessor-style names (BASECOLOR_MAP, LIGHT_TYPE_PBR, ...) and values are their integer settings.
type RenderOption map[string]int

// Render option keys consulted or produced by materials.
const (
	OptionHasLight      = "HAS_LIGHT"
	OptionHasNormal     = "HAS_NORMAL"
	OptionHasNormalMap  = "HAS_NORMAL_MAP"
	OptionHasTexcoord0  = "HAS_TEXCOORD0"
	OptionSide          = "SIDE"
	OptionAlphaCutoff   = "ALPHA_CUTOFF"
	OptionLightTypePref = "LIGHT_TYPE_"
)

// Set sets a flag to 1.
func (o RenderOption) Set(name string) {
	o[name] = 1
}

// Has reports whether a flag is present with a non-zero value.
func (o RenderOption) Has(name string) bool {
	return o[name] != 0
}

// Key returns a stable representation of the option set, suitable as a program cache key.
func (o RenderOption) Key() string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(o[name]))
	}
	return b.String()
}

// Defines renders the option set as WGSL override declarations, one per line in key order.
func (o RenderOption) Defines() string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("override ")
		b.WriteString(name)
		b.WriteString(": i32 = ")
		b.WriteString(strconv.Itoa(o[name]))
		b.WriteString(";\n")
	}
	return b.String()
}
