package material

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
)

// ColorOrTexture holds either a flat color or a texture reference for a material channel.
// The zero value is unset.
type ColorOrTexture struct {
	color   common.Color
	texture *texture.Texture
	isColor bool
}

// FromColor creates a channel value holding a flat color.
func FromColor(c common.Color) ColorOrTexture {
	return ColorOrTexture{color: c, isColor: true}
}

// FromTexture creates a channel value holding a texture. A nil texture yields an unset value.
func FromTexture(t *texture.Texture) ColorOrTexture {
	return ColorOrTexture{texture: t}
}

// IsSet reports whether the channel is bound to either a color or a texture.
func (v ColorOrTexture) IsSet() bool {
	return v.isColor || v.texture != nil
}

// Color returns the color and true if the channel holds a color.
func (v ColorOrTexture) Color() (common.Color, bool) {
	return v.color, v.isColor
}

// Texture returns the texture and true if the channel holds a texture.
func (v ColorOrTexture) Texture() (*texture.Texture, bool) {
	return v.texture, v.texture != nil
}

// IsTexture reports whether the channel holds a texture.
func (v ColorOrTexture) IsTexture() bool {
	return v.texture != nil
}

// IsCubeTexture reports whether the channel holds a cube map texture.
func (v ColorOrTexture) IsCubeTexture() bool {
	return v.texture != nil && v.texture.Target == texture.TargetCube
}
