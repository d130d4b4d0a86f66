package scene

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is an element of the scene graph with a local transform, exclusive ownership of its children,
// and optional attached meshes and camera.
//
// The transform is stored decomposed as translation, rotation and scale. SetMatrix decomposes its
// argument, so a node is always driven by exactly one source.
type Node struct {
	// ID is the generated unique identifier.
	ID string

	// Name is the node name from the source asset.
	Name string

	// JointName registers the node as a skin joint under this name. Empty for non-joint nodes.
	JointName string

	// AnimationID is the source asset id animation channels use to target this node.
	AnimationID string

	// Position is the local translation.
	Position mgl32.Vec3

	// Quaternion is the local rotation.
	Quaternion mgl32.Quat

	// Scale is the local scale.
	Scale mgl32.Vec3

	// Camera is the attached camera, if any.
	Camera camera.Camera

	// Meshes are the renderables attached to this node.
	Meshes []*Mesh

	// Weights are the morph target weights applied to the node's meshes.
	Weights []float32

	parent   *Node
	children []*Node
}

// NewNode creates a node with an identity transform.
//
// Parameters:
//   - options: functional options to configure the node
//
// Returns:
//   - *Node: the node
func NewNode(options ...NodeBuilderOption) *Node {
	n := &Node{
		ID:         common.GenerateID("Node"),
		Quaternion: mgl32.QuatIdent(),
		Scale:      mgl32.Vec3{1, 1, 1},
	}
	for _, option := range options {
		option(n)
	}
	return n
}

// Matrix returns the local transform composed as T * R * S.
func (n *Node) Matrix() mgl32.Mat4 {
	return common.ComposeTRS(n.Position, n.Quaternion, n.Scale)
}

// SetMatrix replaces the local transform with the decomposition of m.
//
// Parameters:
//   - m: the local transform, affine without shear
func (n *Node) SetMatrix(m mgl32.Mat4) {
	n.Position, n.Quaternion, n.Scale = common.DecomposeTRS(m)
}

// WorldMatrix returns the transform from local to world space.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.Matrix().Mul4(m)
	}
	return m
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the owned child nodes in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild takes ownership of child, detaching it from its previous parent first.
// Adding a node to itself or to one of its descendants is ignored.
//
// Parameters:
//   - child: the node to adopt
func (n *Node) AddChild(child *Node) {
	if child == nil || child == n || child.IsAncestorOf(n) {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChild releases ownership of child. It is a no-op if child is not a direct child.
//
// Parameters:
//   - child: the node to detach
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// AddMesh attaches a mesh to the node.
func (n *Node) AddMesh(m *Mesh) {
	m.node = n
	n.Meshes = append(n.Meshes, m)
}

// Traverse visits n and its descendants depth-first in child order. Returning false from fn
// skips the children of the visited node.
//
// Parameters:
//   - fn: the visitor
func (n *Node) Traverse(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// AllMeshes returns every mesh attached to n or its descendants in traversal order.
func (n *Node) AllMeshes() []*Mesh {
	var out []*Mesh
	n.Traverse(func(node *Node) bool {
		out = append(out, node.Meshes...)
		return true
	})
	return out
}

// FindByName returns the first node in traversal order with the given name, or nil.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Traverse(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}
