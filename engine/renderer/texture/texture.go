// Package texture holds the engine's texture description, the image decoding used to stage it for upload,
// and the registry of GPU handles owned by a rendering context.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/h2non/filetype"
	"github.com/jinzhu/copier"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Target is the texture binding target.
type Target int

const (
	// Target2D is a regular 2D texture.
	Target2D Target = iota
	// TargetCube is a six-face cube map.
	TargetCube
)

// Sampler filter and wrap codes as they appear in glTF sampler records.
//
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#_sampler_magfilter
const (
	FilterNearest              = 9728
	FilterLinear               = 9729
	FilterNearestMipmapNearest = 9984
	FilterLinearMipmapNearest  = 9985
	FilterNearestMipmapLinear  = 9986
	FilterLinearMipmapLinear   = 9987

	WrapClampToEdge    = 33071
	WrapMirroredRepeat = 33648
	WrapRepeat         = 10497
)

// Texture describes an image and the sampling state it is drawn with.
type Texture struct {
	// ID is the generated unique identifier, used as the registry key.
	ID string

	// Name is an optional human-readable name.
	Name string

	// URI is the resolved image location, empty for embedded images.
	URI string

	// Data holds the encoded image bytes (PNG, JPEG, WebP, BMP or GIF).
	Data []byte

	// MimeType is the image media type. Sniffed from Data when empty.
	MimeType string

	// Width and Height are the pixel dimensions, populated by Decode.
	Width, Height int

	// Target is the binding target.
	Target Target

	// Format is the internal GPU texel format.
	Format wgpu.TextureFormat

	// MagFilter is the magnification filter code.
	MagFilter int

	// MinFilter is the minification filter code. Mipmap codes enable mipmapping.
	MinFilter int

	// WrapS and WrapT are the horizontal and vertical wrap codes.
	WrapS, WrapT int

	// FlipY flips rows vertically while decoding.
	FlipY bool

	// PremultiplyAlpha multiplies color channels by alpha while decoding.
	PremultiplyAlpha bool

	// Anisotropic is the maximum anisotropy level.
	Anisotropic uint16

	// UV is the texture coordinate set the texture samples.
	UV int

	// NeedUpdate signals that the GPU copy is stale.
	NeedUpdate bool
}

// New creates a Texture with default sampling state: linear filtering, repeat wrapping, RGBA8 format.
func New() *Texture {
	return &Texture{
		ID:          common.GenerateID("Texture"),
		Target:      Target2D,
		Format:      wgpu.TextureFormatRGBA8Unorm,
		MagFilter:   FilterLinear,
		MinFilter:   FilterLinear,
		WrapS:       WrapRepeat,
		WrapT:       WrapRepeat,
		Anisotropic: 1,
		NeedUpdate:  true,
	}
}

// UseMipmap reports whether the minification filter samples mipmaps.
func (t *Texture) UseMipmap() bool {
	return t.MinFilter != FilterLinear && t.MinFilter != FilterNearest
}

// UseRepeat reports whether either axis wraps with repeat or mirrored repeat.
func (t *Texture) UseRepeat() bool {
	return t.WrapS != WrapClampToEdge || t.WrapT != WrapClampToEdge
}

// NeedsPowerOfTwo reports whether the image must be resized to power-of-two dimensions before upload on
// backends without non-power-of-two repeat and mipmap support.
func (t *Texture) NeedsPowerOfTwo() bool {
	return t.UseRepeat() || t.UseMipmap()
}

// Clone returns a copy of the texture with a new ID. Image bytes are shared.
//
// Returns:
//   - *Texture: the copy
//   - error: an error if the copy fails
func (t *Texture) Clone() (*Texture, error) {
	out := &Texture{}
	if err := copier.Copy(out, t); err != nil {
		return nil, fmt.Errorf("failed to clone texture %s: %w", t.ID, err)
	}
	out.ID = common.GenerateID("Texture")
	out.NeedUpdate = true
	return out, nil
}

// SamplerData converts the sampler codes to a WebGPU sampler configuration.
func (t *Texture) SamplerData() common.SamplerStagingData {
	s := common.SamplerStagingData{
		AddressModeU:  wrapToAddressMode(t.WrapS),
		AddressModeV:  wrapToAddressMode(t.WrapT),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: max(t.Anisotropic, 1),
	}

	if t.MagFilter == FilterNearest {
		s.MagFilter = wgpu.FilterModeNearest
	}

	switch t.MinFilter {
	case FilterNearest, FilterNearestMipmapNearest:
		s.MinFilter = wgpu.FilterModeNearest
	case FilterNearestMipmapLinear:
		s.MinFilter = wgpu.FilterModeNearest
		s.MipmapFilter = wgpu.MipmapFilterModeLinear
	case FilterLinearMipmapLinear:
		s.MipmapFilter = wgpu.MipmapFilterModeLinear
	}

	if !t.UseMipmap() {
		s.LodMaxClamp = 0
	}

	return s
}

func wrapToAddressMode(wrap int) wgpu.AddressMode {
	switch wrap {
	case WrapClampToEdge:
		return wgpu.AddressModeClampToEdge
	case WrapMirroredRepeat:
		return wgpu.AddressModeMirrorRepeat
	default:
		return wgpu.AddressModeRepeat
	}
}

// DetectMimeType sniffs the image media type from Data when MimeType is empty.
//
// Returns:
//   - string: the media type, or "" if unknown
func (t *Texture) DetectMimeType() string {
	if t.MimeType != "" || len(t.Data) == 0 {
		return t.MimeType
	}
	kind, err := filetype.Match(t.Data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	t.MimeType = kind.MIME.Value
	return t.MimeType
}

// Decode decodes Data into RGBA pixels, honoring FlipY and PremultiplyAlpha.
// Supports PNG, JPEG, GIF, BMP and WebP.
// Reference: https://pkg.go.dev/image
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: error if there is no data or decoding fails
func (t *Texture) Decode() (common.TextureStagingData, error) {
	if len(t.Data) == 0 {
		return common.TextureStagingData{}, fmt.Errorf("texture %s has no image data", t.ID)
	}

	if kind, _ := filetype.Match(t.Data); kind != filetype.Unknown && !filetype.IsImage(t.Data) {
		return common.TextureStagingData{}, fmt.Errorf("texture %s: data is %s, not an image", t.ID, kind.MIME.Value)
	}

	img, _, err := image.Decode(bytes.NewReader(t.Data))
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("failed to decode texture %s: %w", t.ID, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if t.FlipY {
		flipRows(rgba)
	}
	if t.PremultiplyAlpha {
		premultiply(rgba.Pix)
	}

	t.Width, t.Height = bounds.Dx(), bounds.Dy()
	t.DetectMimeType()

	return common.TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(t.Width),
		Height: uint32(t.Height),
	}, nil
}

func flipRows(img *image.RGBA) {
	h := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}

func premultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		pix[i] = byte(uint32(pix[i]) * a / 255)
		pix[i+1] = byte(uint32(pix[i+1]) * a / 255)
		pix[i+2] = byte(uint32(pix[i+2]) * a / 255)
	}
}
