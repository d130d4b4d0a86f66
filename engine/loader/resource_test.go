package loader

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		want    []byte
		wantErr bool
	}{
		{name: "base64", uri: "data:application/octet-stream;base64,AQID", want: []byte{1, 2, 3}},
		{name: "percent escaped", uri: "data:text/plain,a%20b", want: []byte("a b")},
		{name: "no comma", uri: "data:text/plain", wantErr: true},
		{name: "bad base64", uri: "data:;base64,!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeDataURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDataURIMimeType(t *testing.T) {
	assert.Equal(t, "image/png", dataURIMimeType("data:image/png;base64,AAAA"))
	assert.Equal(t, "text/plain", dataURIMimeType("data:text/plain,hi"))
	assert.Empty(t, dataURIMimeType("textures/a.png"))
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, filepath.Join("models", "tex", "a b.png"), relativePath("models", "tex/a%20b.png"))
	assert.Equal(t, "a.bin", relativePath("", "a.bin"))
	assert.Equal(t, "data:,x", relativePath("models", "data:,x"))
	assert.Equal(t, "https://example.com/a.png", relativePath("models", "https://example.com/a.png"))
	assert.Equal(t, "", relativePath("models", ""))
}

func TestFileResourceLoader(t *testing.T) {
	fsys := fstest.MapFS{"models/a.bin": {Data: []byte{4, 5}}}
	l := NewFileResourceLoader(fsys)

	data, err := l.LoadResource(context.Background(), "models/a.bin", ResourceKindBuffer)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5}, data)

	data, err = l.LoadResource(context.Background(), "data:;base64,AQ==", ResourceKindBuffer)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)

	_, err = l.LoadResource(context.Background(), "models/missing.png", ResourceKindImage)
	assert.ErrorContains(t, err, "image")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.LoadResource(ctx, "models/a.bin", ResourceKindBuffer)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResourceKindString(t *testing.T) {
	assert.Equal(t, "buffer", ResourceKindBuffer.String())
	assert.Equal(t, "image", ResourceKindImage.String())
	assert.Equal(t, "model", ResourceKindModel.String())
	assert.Equal(t, "unknown", ResourceKind(9).String())
}
