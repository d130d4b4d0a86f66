package model

import (
	"fmt"
	"sort"
)

// AnimationProperty names the node transform property a channel drives.
type AnimationProperty string

const (
	// AnimationPropertyTranslation drives the node translation (VEC3).
	AnimationPropertyTranslation AnimationProperty = "translation"
	// AnimationPropertyQuaternion drives the node rotation quaternion (VEC4, x y z w).
	AnimationPropertyQuaternion AnimationProperty = "quaternion"
	// AnimationPropertyScale drives the node scale (VEC3).
	AnimationPropertyScale AnimationProperty = "scale"
	// AnimationPropertyWeights drives the morph target weights of the node's meshes.
	AnimationPropertyWeights AnimationProperty = "weights"
)

// Interpolation is the keyframe interpolation kind.
type Interpolation string

// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#animations
const (
	InterpolationLinear      Interpolation = "LINEAR"
	InterpolationStep        Interpolation = "STEP"
	InterpolationCubicSpline Interpolation = "CUBICSPLINE"
)

// AnimationState is the keyframe timeline of a single node property.
type AnimationState struct {
	// NodeID is the id of the target node (the glTF node index or, for glTF 1.0, its key).
	NodeID string

	// Property is the driven transform property.
	Property AnimationProperty

	// Interpolation is the keyframe interpolation kind.
	Interpolation Interpolation

	// Times holds the keyframe times in seconds.
	Times []float32

	// Values holds the keyframe values, Size components per keyframe (three groups for cubic splines).
	Values []float32

	// Size is the number of components of one value (3 for translation, 4 for quaternion, target count for weights).
	Size int
}

// Validate checks that the times and values sequences have matching cardinality.
func (s *AnimationState) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("animation state %s.%s: invalid value size %d", s.NodeID, s.Property, s.Size)
	}
	per := s.Size
	if s.Interpolation == InterpolationCubicSpline {
		per *= 3
	}
	if len(s.Values) != len(s.Times)*per {
		return fmt.Errorf("animation state %s.%s: %d values for %d keyframes of size %d",
			s.NodeID, s.Property, len(s.Values), len(s.Times), per)
	}
	return nil
}

// AnimationClip is a named sub-range of the flattened animation timeline.
type AnimationClip struct {
	// Name is the clip identifier.
	Name string

	// Start is the clip start time in seconds.
	Start float32

	// End is the clip end time in seconds.
	End float32
}

// Animation is the flattened set of all animation channels in an asset.
type Animation struct {
	// States holds one timeline per channel in channel order.
	States []*AnimationState

	// Clips holds named sub-ranges keyed by name. Clips share keyframe data with States.
	Clips map[string]AnimationClip
}

// Duration returns the largest keyframe time across all states.
func (a *Animation) Duration() float32 {
	var end float32
	for _, s := range a.States {
		if n := len(s.Times); n > 0 && s.Times[n-1] > end {
			end = s.Times[n-1]
		}
	}
	return end
}

// ClipNames returns the clip names sorted alphabetically.
func (a *Animation) ClipNames() []string {
	names := make([]string, 0, len(a.Clips))
	for name := range a.Clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatesForNode returns the timelines targeting the given node id.
func (a *Animation) StatesForNode(nodeID string) []*AnimationState {
	var out []*AnimationState
	for _, s := range a.States {
		if s.NodeID == nodeID {
			out = append(out, s)
		}
	}
	return out
}
