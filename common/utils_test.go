package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, float32(1.5), Coalesce[float32](0, 1.5, 2))
	assert.Equal(t, "b", Coalesce("", "b"))
	assert.Equal(t, 0, Coalesce(0, 0))
	assert.Equal(t, 0, Coalesce[int]())
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID("Texture"), GenerateID("Texture")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "Texture_"))
}

func TestNewColor(t *testing.T) {
	assert.Equal(t, Color{R: 1, G: 0.5, B: 0.25, A: 1}, NewColor([]float32{1, 0.5, 0.25}))
	assert.Equal(t, Color{A: 1}, NewColor(nil))
	assert.Equal(t, [4]float32{1, 2, 3, 4}, NewColor([]float32{1, 2, 3, 4, 5}).Array())
}
