package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExclusiveOwnership(t *testing.T) {
	a, b, c := NewNode(WithName("a")), NewNode(WithName("b")), NewNode(WithName("c"))

	a.AddChild(c)
	b.AddChild(c)

	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{c}, b.Children())
	assert.Same(t, b, c.Parent())

	c.AddChild(b)
	assert.Empty(t, c.Children(), "a descendant cannot adopt its ancestor")
	assert.Same(t, c, b.FindByName("c"))
}

func TestMatrixRoundTrip(t *testing.T) {
	rot := mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0})
	m := mgl32.Translate3D(1, 2, 3).Mul4(rot.Mat4()).Mul4(mgl32.Scale3D(2, 2, 2))

	n := NewNode(WithMatrix(m))
	assert.True(t, n.Position.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5))
	assert.True(t, n.Scale.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-5))
	assert.True(t, n.Matrix().ApproxEqualThreshold(m, 1e-5))
}

func TestWorldMatrix(t *testing.T) {
	parent := NewNode(WithTRS(mgl32.Vec3{0, 5, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}))
	child := NewNode(WithTRS(mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1}))
	parent.AddChild(child)

	assert.True(t, child.WorldMatrix().Col(3).Vec3().ApproxEqual(mgl32.Vec3{1, 5, 0}))
}

func TestMeshCloneSharesData(t *testing.T) {
	g := model.NewGeometry()
	mat := material.NewBasicMaterial()
	m := NewMesh(g, mat)
	m.Skin = &SkinnedMesh{
		InverseBindMatrices: []mgl32.Mat4{mgl32.Ident4()},
		JointNames:          []string{"j0"},
	}

	c, err := m.Clone()
	require.NoError(t, err)
	assert.NotEqual(t, m.ID, c.ID)
	assert.Same(t, g, c.Geometry)
	assert.Same(t, mat, c.Material.(*material.BasicMaterial))
	assert.True(t, c.FrustumTest)

	c.Skin.JointNames[0] = "changed"
	assert.Equal(t, "j0", m.Skin.JointNames[0])
}

func TestResetJoints(t *testing.T) {
	root := NewNode()
	j0 := NewNode(WithJointName("j0"))
	root.AddChild(j0)

	s := &SkinnedMesh{
		InverseBindMatrices: []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
		JointNames:          []string{"j0", "missing"},
	}
	missing := s.ResetJoints(root, map[string]*Node{"j0": j0})

	assert.Equal(t, 1, missing)
	assert.Same(t, j0, s.Joints[0])
	assert.Nil(t, s.Joints[1])
	assert.Same(t, root, s.RootNode)
	assert.Len(t, s.JointMatrices(), 2)
}

func TestWorldBoundingSphere(t *testing.T) {
	g := model.NewGeometry()
	g.Vertices = &model.GeometryData{
		Data:  model.Components[float32]{-1, 0, 0, 1, 0, 0},
		Size:  3,
		Count: 2,
	}
	node := NewNode(WithTRS(mgl32.Vec3{0, 0, -10}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2}))
	m := NewMesh(g, nil)
	node.AddMesh(m)

	center, radius := m.WorldBoundingSphere()
	assert.True(t, center.ApproxEqual(mgl32.Vec3{0, 0, -10}))
	assert.InDelta(t, 2, radius, 1e-5)
	assert.False(t, m.CastsShadows())
	assert.Equal(t, []*Mesh{m}, node.AllMeshes())
}
