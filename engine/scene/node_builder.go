package scene

import "github.com/go-gl/mathgl/mgl32"

// NodeBuilderOption is a functional option for configuring a Node.
// Use the With* functions to create options.
type NodeBuilderOption func(n *Node)

// WithName sets the node name.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithName(name string) NodeBuilderOption {
	return func(n *Node) {
		n.Name = name
	}
}

// WithAnimationID sets the id animation channels use to target the node.
//
// Parameters:
//   - id: the source asset node id
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithAnimationID(id string) NodeBuilderOption {
	return func(n *Node) {
		n.AnimationID = id
	}
}

// WithJointName registers the node as a skin joint.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithJointName(name string) NodeBuilderOption {
	return func(n *Node) {
		n.JointName = name
	}
}

// WithMatrix sets the local transform from a matrix.
//
// Parameters:
//   - m: the local transform
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithMatrix(m mgl32.Mat4) NodeBuilderOption {
	return func(n *Node) {
		n.SetMatrix(m)
	}
}

// WithTRS sets the local transform from translation, rotation and scale.
//
// Parameters:
//   - t: translation
//   - r: rotation
//   - s: scale
//
// Returns:
//   - NodeBuilderOption: option function to apply
func WithTRS(t mgl32.Vec3, r mgl32.Quat, s mgl32.Vec3) NodeBuilderOption {
	return func(n *Node) {
		n.Position, n.Quaternion, n.Scale = t, r, s
	}
}
