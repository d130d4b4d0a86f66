package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func glbV1(json, body []byte) []byte {
	total := uint32(20 + len(json) + len(body))
	return append(le(uint32(gltfGLBMagic), uint32(1), total, uint32(len(json)), uint32(0), json), body...)
}

func glbV2(json, body []byte) []byte {
	pad := func(b []byte, with byte) []byte {
		for len(b)%4 != 0 {
			b = append(b, with)
		}
		return b
	}
	json = pad(append([]byte(nil), json...), ' ')
	body = pad(append([]byte(nil), body...), 0)

	chunks := le(uint32(len(json)), uint32(gltfGLBChunkJSON), json)
	chunks = append(chunks, le(uint32(8), uint32(0x12345678), uint64(0))...)
	if len(body) > 0 {
		chunks = append(chunks, le(uint32(len(body)), uint32(gltfGLBChunkBIN), body)...)
	}
	return append(le(uint32(gltfGLBMagic), uint32(2), uint32(12+len(chunks))), chunks...)
}

func TestParseGLBv1(t *testing.T) {
	c, err := parseGLB(glbV1([]byte(`{"asset":{}}`), []byte{1, 2, 3, 4}))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), c.Version)
	assert.Equal(t, `{"asset":{}}`, string(c.JSON))
	assert.Equal(t, []byte{1, 2, 3, 4}, c.Body)
}

func TestParseGLBv2SkipsUnknownChunks(t *testing.T) {
	c, err := parseGLB(glbV2([]byte(`{"asset":{}}`), []byte{9, 9, 9, 9}))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), c.Version)
	assert.JSONEq(t, `{"asset":{}}`, string(c.JSON))
	assert.Equal(t, []byte{9, 9, 9, 9}, c.Body)
}

func TestParseGLBErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "version", data: le(uint32(gltfGLBMagic), uint32(3), uint32(12)), want: ErrUnsupportedContainerVersion},
		{name: "magic", data: le(uint32(0xdeadbeef), uint32(2), uint32(12)), want: errInvalidGLBMagic},
		{name: "short", data: le(uint32(gltfGLBMagic)), want: errGLBTooSmall},
		{name: "no json", data: le(uint32(gltfGLBMagic), uint32(2), uint32(12)), want: errMissingJSONChunk},
		{name: "truncated", data: le(uint32(gltfGLBMagic), uint32(2), uint32(4096), uint32(0), uint32(gltfGLBChunkJSON)), want: errGLBTruncated},
		{
			name: "oversized chunk",
			data: le(uint32(gltfGLBMagic), uint32(2), uint32(20), uint32(0x7FFFFFF0), uint32(gltfGLBChunkJSON)),
			want: errChunkOutOfRange,
		},
		{
			name: "max chunk length",
			data: le(uint32(gltfGLBMagic), uint32(2), uint32(24), uint32(0xFFFFFFFF), uint32(gltfGLBChunkBIN), uint32(0)),
			want: errChunkOutOfRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseGLB(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadRejectsContainerVersion(t *testing.T) {
	data := le(uint32(gltfGLBMagic), uint32(7), uint32(12))
	_, err := NewLoader().Parse(t.Context(), data, "")
	assert.ErrorIs(t, err, ErrUnsupportedContainerVersion)
}
