package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestFrustumCulling(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 10)
	view := mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustumFromMatrix(proj.Mul4(view))

	assert.True(t, f.ContainsPoint(mgl32.Vec3{0, 0, -5}))
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, 5}), "behind the camera")
	assert.False(t, f.ContainsPoint(mgl32.Vec3{0, 0, -20}), "beyond the far plane")
	assert.True(t, f.IntersectsSphere(mgl32.Vec3{0, 0, -11}, 2), "straddles the far plane")

	for _, p := range f.Planes {
		assert.InDelta(t, 1, p.Normal.Len(), 1e-5)
	}
}
