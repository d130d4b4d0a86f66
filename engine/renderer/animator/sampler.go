package animator

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Sample evaluates a timeline at time t. Times before the first keyframe hold the first value and
// times after the last keyframe hold the last value.
//
// Parameters:
//   - s: the timeline
//   - t: the time in seconds
//
// Returns:
//   - []float32: s.Size components, or nil if the timeline has no keyframes
func Sample(s *model.AnimationState, t float32) []float32 {
	n := len(s.Times)
	if n == 0 || s.Size <= 0 {
		return nil
	}
	if t <= s.Times[0] {
		return keyValue(s, 0)
	}
	if t >= s.Times[n-1] {
		return keyValue(s, n-1)
	}

	// k is the last keyframe at or before t
	k := sort.Search(n, func(i int) bool { return s.Times[i] > t }) - 1
	t0, t1 := s.Times[k], s.Times[k+1]
	dt := t1 - t0
	u := float32(0)
	if dt > 0 {
		u = (t - t0) / dt
	}

	switch s.Interpolation {
	case model.InterpolationStep:
		return keyValue(s, k)
	case model.InterpolationCubicSpline:
		out := hermite(s, k, u, dt)
		if s.Property == model.AnimationPropertyQuaternion {
			normalize(out)
		}
		return out
	default:
		a, b := keyValue(s, k), keyValue(s, k+1)
		if s.Property == model.AnimationPropertyQuaternion {
			return quatToSlice(mgl32.QuatSlerp(sliceToQuat(a), sliceToQuat(b), u))
		}
		return lerp(a, b, u)
	}
}

// keyValue returns the value of keyframe k, skipping the tangents of cubic spline timelines.
func keyValue(s *model.AnimationState, k int) []float32 {
	if s.Interpolation == model.InterpolationCubicSpline {
		start := k*3*s.Size + s.Size
		return append([]float32(nil), s.Values[start:start+s.Size]...)
	}
	return append([]float32(nil), s.Values[k*s.Size:(k+1)*s.Size]...)
}

// hermite evaluates the cubic spline segment between keyframes k and k+1.
//
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#interpolation-cubic
func hermite(s *model.AnimationState, k int, u, dt float32) []float32 {
	size := s.Size
	base0 := k * 3 * size
	base1 := (k + 1) * 3 * size

	u2 := u * u
	u3 := u2 * u
	h00 := 2*u3 - 3*u2 + 1
	h10 := u3 - 2*u2 + u
	h01 := -2*u3 + 3*u2
	h11 := u3 - u2

	out := make([]float32, size)
	for c := 0; c < size; c++ {
		p0 := s.Values[base0+size+c]
		m0 := s.Values[base0+2*size+c] * dt
		p1 := s.Values[base1+size+c]
		m1 := s.Values[base1+c] * dt
		out[c] = h00*p0 + h10*m0 + h01*p1 + h11*m1
	}
	return out
}

func lerp(a, b []float32, u float32) []float32 {
	out := make([]float32, len(a))
	for i := range a {
		out[i] = a[i] + (b[i]-a[i])*u
	}
	return out
}

func normalize(v []float32) {
	var sum float32
	for _, c := range v {
		sum += c * c
	}
	if sum == 0 {
		return
	}
	inv := 1 / math32.Sqrt(sum)
	for i := range v {
		v[i] *= inv
	}
}

// sliceToQuat reads an x y z w quaternion.
func sliceToQuat(v []float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

func quatToSlice(q mgl32.Quat) []float32 {
	return []float32{q.V[0], q.V[1], q.V[2], q.W}
}

// mix blends two samples of the same property by factor u.
func mix(p model.AnimationProperty, a, b []float32, u float32) []float32 {
	if len(a) != len(b) {
		return b
	}
	if p == model.AnimationPropertyQuaternion {
		return quatToSlice(mgl32.QuatSlerp(sliceToQuat(a), sliceToQuat(b), u))
	}
	return lerp(a, b, u)
}
