package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewDefaults(t *testing.T) {
	tex := New()
	assert.NotEmpty(t, tex.ID)
	assert.Equal(t, Target2D, tex.Target)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, tex.Format)
	assert.Equal(t, FilterLinear, tex.MagFilter)
	assert.Equal(t, FilterLinear, tex.MinFilter)
	assert.Equal(t, WrapRepeat, tex.WrapS)
	assert.Equal(t, WrapRepeat, tex.WrapT)
	assert.True(t, tex.NeedUpdate)
	assert.False(t, tex.UseMipmap())
	assert.True(t, tex.NeedsPowerOfTwo())
}

func TestCloneAssignsNewID(t *testing.T) {
	src := New()
	src.Name = "albedo"
	src.Data = []byte{1, 2, 3}
	src.WrapS = WrapClampToEdge
	src.NeedUpdate = false

	dst, err := src.Clone()
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dst.ID)
	assert.Equal(t, "albedo", dst.Name)
	assert.Equal(t, src.Data, dst.Data)
	assert.Equal(t, WrapClampToEdge, dst.WrapS)
	assert.True(t, dst.NeedUpdate)
}

func TestNeedsPowerOfTwo(t *testing.T) {
	tex := New()
	tex.WrapS, tex.WrapT = WrapClampToEdge, WrapClampToEdge
	assert.False(t, tex.NeedsPowerOfTwo())

	tex.MinFilter = FilterLinearMipmapLinear
	assert.True(t, tex.NeedsPowerOfTwo())
}

func TestSamplerData(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Texture)
		expect func(*testing.T, common.SamplerStagingData)
	}{
		{
			name:  "defaults",
			setup: func(*Texture) {},
			expect: func(t *testing.T, s common.SamplerStagingData) {
				assert.Equal(t, wgpu.AddressModeRepeat, s.AddressModeU)
				assert.Equal(t, wgpu.FilterModeLinear, s.MinFilter)
				assert.Equal(t, float32(0), s.LodMaxClamp)
				assert.Equal(t, uint16(1), s.MaxAnisotropy)
			},
		},
		{
			name: "nearest mipmap linear",
			setup: func(tex *Texture) {
				tex.MagFilter = FilterNearest
				tex.MinFilter = FilterNearestMipmapLinear
				tex.WrapS = WrapMirroredRepeat
				tex.WrapT = WrapClampToEdge
				tex.Anisotropic = 8
			},
			expect: func(t *testing.T, s common.SamplerStagingData) {
				assert.Equal(t, wgpu.AddressModeMirrorRepeat, s.AddressModeU)
				assert.Equal(t, wgpu.AddressModeClampToEdge, s.AddressModeV)
				assert.Equal(t, wgpu.FilterModeNearest, s.MagFilter)
				assert.Equal(t, wgpu.FilterModeNearest, s.MinFilter)
				assert.Equal(t, wgpu.MipmapFilterModeLinear, s.MipmapFilter)
				assert.Equal(t, float32(32), s.LodMaxClamp)
				assert.Equal(t, uint16(8), s.MaxAnisotropy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := New()
			tt.setup(tex)
			tt.expect(t, tex.SamplerData())
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	tex := New()
	tex.Data = encodePNG(t, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.Equal(t, "image/png", tex.DetectMimeType())

	unknown := New()
	unknown.Data = []byte{0, 1, 2, 3}
	assert.Empty(t, unknown.DetectMimeType())
}

func TestDecode(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 128})
	img.Set(0, 1, color.NRGBA{G: 255, A: 255})

	t.Run("plain", func(t *testing.T) {
		tex := New()
		tex.Data = encodePNG(t, img)
		staged, err := tex.Decode()
		require.NoError(t, err)
		assert.Equal(t, uint32(1), staged.Width)
		assert.Equal(t, uint32(2), staged.Height)
		assert.Equal(t, 1, tex.Width)
		assert.Equal(t, "image/png", tex.MimeType)
		assert.Equal(t, []byte{0, 255, 0, 255}, staged.Pixels[4:8])
	})

	t.Run("flipped", func(t *testing.T) {
		tex := New()
		tex.Data = encodePNG(t, img)
		tex.FlipY = true
		staged, err := tex.Decode()
		require.NoError(t, err)
		assert.Equal(t, []byte{0, 255, 0, 255}, staged.Pixels[0:4])
	})

	t.Run("empty", func(t *testing.T) {
		_, err := New().Decode()
		assert.Error(t, err)
	})

	t.Run("not an image", func(t *testing.T) {
		tex := New()
		tex.Data = []byte("%PDF-1.4 not an image")
		_, err := tex.Decode()
		assert.Error(t, err)
	})
}
