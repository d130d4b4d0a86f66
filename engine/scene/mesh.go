package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
)

// Mesh is a renderable instance of a geometry with a material.
type Mesh struct {
	// ID is the generated unique identifier.
	ID string

	// Name is the mesh name from the source asset.
	Name string

	// Geometry is the vertex data. Shared between clones.
	Geometry *model.Geometry

	// Material is the surface material. Shared between clones.
	Material material.Material

	// FrustumTest enables visibility culling against the active camera. Enabled by default.
	FrustumTest bool

	// Skin is the skeleton binding of a skinned mesh, nil otherwise.
	Skin *SkinnedMesh

	node *Node
}

// SkinnedMesh binds a mesh to a joint hierarchy. InverseBindMatrices[i] belongs to JointNames[i].
type SkinnedMesh struct {
	// InverseBindMatrices transform from mesh space to joint space at bind time, one per joint.
	InverseBindMatrices []mgl32.Mat4

	// JointNames are the joint names in binding order.
	JointNames []string

	// Joints are the resolved joint nodes in binding order, populated by ResetJoints.
	Joints []*Node

	// RootNode is the node the joint names were resolved against.
	RootNode *Node
}

// NewMesh creates a mesh with frustum testing enabled.
//
// Parameters:
//   - geometry: the vertex data
//   - mat: the surface material
//
// Returns:
//   - *Mesh: the mesh
func NewMesh(geometry *model.Geometry, mat material.Material) *Mesh {
	return &Mesh{
		ID:          common.GenerateID("Mesh"),
		Geometry:    geometry,
		Material:    mat,
		FrustumTest: true,
	}
}

// Node returns the node the mesh is attached to, or nil.
func (m *Mesh) Node() *Node {
	return m.node
}

// IsSkinned reports whether the mesh is bound to a skeleton.
func (m *Mesh) IsSkinned() bool {
	return m.Skin != nil
}

// CastsShadows reports whether the mesh's material opts into shadow passes.
func (m *Mesh) CastsShadows() bool {
	return m.Material != nil && m.Material.State().CastShadows
}

// Clone returns a lightweight instance sharing geometry and material. The skin binding lists are copied
// and joints are left unresolved.
//
// Returns:
//   - *Mesh: the clone
//   - error: an error if copying fails
func (m *Mesh) Clone() (*Mesh, error) {
	out := &Mesh{}
	if err := copier.Copy(out, m); err != nil {
		return nil, fmt.Errorf("failed to clone mesh %s: %w", m.ID, err)
	}
	out.ID = common.GenerateID("Mesh")
	out.Geometry = m.Geometry
	out.Material = m.Material
	out.node = nil

	if m.Skin != nil {
		out.Skin = &SkinnedMesh{
			InverseBindMatrices: append([]mgl32.Mat4(nil), m.Skin.InverseBindMatrices...),
			JointNames:          append([]string(nil), m.Skin.JointNames...),
		}
	}
	return out, nil
}

// ResetJoints resolves JointNames against a joint lookup and records the root the skeleton belongs to.
// Names missing from the lookup leave a nil entry at their position so indices stay aligned.
//
// Parameters:
//   - root: the root node of the completed graph
//   - joints: joint name to node lookup
//
// Returns:
//   - int: the number of unresolved joint names
func (s *SkinnedMesh) ResetJoints(root *Node, joints map[string]*Node) int {
	s.RootNode = root
	s.Joints = make([]*Node, len(s.JointNames))
	missing := 0
	for i, name := range s.JointNames {
		if n, ok := joints[name]; ok {
			s.Joints[i] = n
		} else {
			missing++
		}
	}
	return missing
}

// JointMatrices returns joint world matrix * inverse bind matrix for every joint, the per-frame skinning palette.
// Unresolved joints contribute the inverse bind matrix alone.
func (s *SkinnedMesh) JointMatrices() []mgl32.Mat4 {
	out := make([]mgl32.Mat4, len(s.InverseBindMatrices))
	for i, ibm := range s.InverseBindMatrices {
		if i < len(s.Joints) && s.Joints[i] != nil {
			out[i] = s.Joints[i].WorldMatrix().Mul4(ibm)
		} else {
			out[i] = ibm
		}
	}
	return out
}

// BoundingSphere returns a local-space sphere enclosing the vertices, applying any deferred position decode matrix.
// A mesh without vertices yields a zero sphere.
//
// Returns:
//   - mgl32.Vec3: sphere center
//   - float32: sphere radius
func (m *Mesh) BoundingSphere() (mgl32.Vec3, float32) {
	if m.Geometry == nil || m.Geometry.Vertices == nil || m.Geometry.Vertices.Count == 0 {
		return mgl32.Vec3{}, 0
	}
	v := m.Geometry.Vertices
	decode := v.DecodeMatrix
	if decode == nil {
		decode = m.Geometry.PositionDecodeMat
	}

	point := func(i int) mgl32.Vec3 {
		var p mgl32.Vec3
		for c := 0; c < 3 && c < v.Size; c++ {
			p[c] = v.Get(i, c)
		}
		if len(decode) == 16 {
			p = common.TransformPoint(common.Mat4FromSlice(decode), p)
		}
		return p
	}

	lo, hi := point(0), point(0)
	for i := 1; i < v.Count; i++ {
		p := point(i)
		for c := 0; c < 3; c++ {
			lo[c] = math32.Min(lo[c], p[c])
			hi[c] = math32.Max(hi[c], p[c])
		}
	}
	center := lo.Add(hi).Mul(0.5)

	var radius float32
	for i := 0; i < v.Count; i++ {
		radius = math32.Max(radius, point(i).Sub(center).Len())
	}
	return center, radius
}

// WorldBoundingSphere returns BoundingSphere transformed by the owning node's world matrix.
// The radius is scaled by the largest axis scale.
func (m *Mesh) WorldBoundingSphere() (mgl32.Vec3, float32) {
	center, radius := m.BoundingSphere()
	if m.node == nil {
		return center, radius
	}
	world := m.node.WorldMatrix()
	scale := math32.Max(world.Col(0).Vec3().Len(), math32.Max(world.Col(1).Vec3().Len(), world.Col(2).Vec3().Len()))
	return common.TransformPoint(world, center), radius * scale
}
