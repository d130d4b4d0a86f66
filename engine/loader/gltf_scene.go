package loader

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera defaults for records that omit them.
const (
	defaultCameraAspect = 1.5
	defaultCameraNear   = 0.01
	defaultCameraFar    = 100
)

// parseScene builds the node graph of the default scene and collects everything the result exposes.
func (p *gltfParser) parseScene(ctx context.Context) (*Result, error) {
	if err := p.parseMaterials(ctx); err != nil {
		return nil, err
	}
	p.parseCameras()

	root := scene.NewNode()
	res := &Result{
		Node: root,
		JSON: p.raw,
	}
	if p.l.progressive {
		res.wait = p.wait
	}

	sceneID, ok := p.defaultScene()
	sc, found := p.doc.Scenes.Get(sceneID)
	if !ok || !found {
		p.logger.Warn("no scene", "scene", sceneID)
		return res, nil
	}

	visiting := make(map[string]bool)
	for _, id := range sc.Nodes {
		child, err := p.buildNode(ctx, id.String(), visiting)
		if err != nil {
			return nil, err
		}
		if child != nil {
			root.AddChild(child)
		}
	}

	for _, m := range p.meshes {
		if m.Skin == nil {
			continue
		}
		if missing := m.Skin.ResetJoints(root, p.jointMap); missing > 0 {
			p.logger.Warn("unresolved skin joints", "mesh", m.Name, "missing", missing)
		}
	}

	anim, err := p.parseAnimations()
	if err != nil {
		return nil, err
	}

	res.Meshes = p.meshes
	res.Anim = anim
	res.Lights = p.pc.takeLights()
	res.Textures = p.textures.all()
	for _, id := range p.doc.Cameras.Keys() {
		if c, ok := p.cameras[id]; ok {
			res.Cameras = append(res.Cameras, c)
		}
	}
	for _, id := range p.doc.Materials.Keys() {
		if m, ok := p.materials[id]; ok {
			res.Materials = append(res.Materials, m)
		}
	}
	return res, nil
}

// defaultScene returns the document's scene id, or the first scene when none is set.
func (p *gltfParser) defaultScene() (string, bool) {
	if id, ok := refOf(p.doc.Scene); ok {
		return id, true
	}
	if keys := p.doc.Scenes.Keys(); len(keys) > 0 {
		return keys[0], true
	}
	return "", false
}

// buildNode creates the node for a node record and its subtree.
//
// Parameters:
//   - ctx: passed to extension handlers
//   - id: the node id
//   - visiting: ids on the current path, a node that contains itself is skipped
//
// Returns:
//   - *scene.Node: the node, or nil when the record is missing or cyclic
//   - error: an error if a mesh or extension fails
func (p *gltfParser) buildNode(ctx context.Context, id string, visiting map[string]bool) (*scene.Node, error) {
	nd, ok := p.doc.Nodes.Get(id)
	if !ok {
		p.logger.Warn("node not found", "node", id)
		return nil, nil
	}
	if visiting[id] {
		p.logger.Warn("node cycle", "node", id)
		return nil, nil
	}
	visiting[id] = true
	defer delete(visiting, id)

	name := nd.Name
	if name == "" {
		name = id
	}
	n := scene.NewNode(scene.WithName(name), scene.WithAnimationID(id))
	applyNodeTransform(n, nd)

	if camID, ok := refOf(nd.Camera); ok {
		if c, ok := p.cameras[camID]; ok {
			n.Camera = c
		}
	}

	switch {
	case nd.JointName != "":
		n.JointName = nd.JointName
		p.jointMap[nd.JointName] = n
	case p.isGLTF2:
		n.JointName = id
		p.jointMap[id] = n
	}

	if len(nd.Weights) > 0 {
		n.Weights = append([]float32(nil), nd.Weights...)
	}

	meshIDs := nd.Meshes
	if mid, ok := refOf(nd.Mesh); ok {
		meshIDs = []ref{ref(mid)}
	}
	for _, mid := range meshIDs {
		if err := p.attachMesh(ctx, n, mid.String(), nd); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}

	for _, name := range sortedSemantics(nd.Extensions) {
		h, ok := p.extensionHandler(name)
		if !ok {
			continue
		}
		if np, ok := h.(NodeParser); ok {
			if err := np.ParseNode(ctx, nd.Extensions[name], n, p.pc); err != nil {
				return nil, fmt.Errorf("node %s: extension %s: %w", id, name, err)
			}
		}
	}

	for _, cid := range nd.Children {
		child, err := p.buildNode(ctx, cid.String(), visiting)
		if err != nil {
			return nil, err
		}
		if child != nil {
			n.AddChild(child)
		}
	}
	return n, nil
}

// applyNodeTransform sets a node's local transform from its matrix, or from its translation, rotation and scale.
func applyNodeTransform(n *scene.Node, nd *gltfNode) {
	if nd.Matrix != nil {
		n.SetMatrix(common.Mat4FromSlice(nd.Matrix[:]))
		return
	}
	if nd.Translation != nil {
		n.Position = mgl32.Vec3(*nd.Translation)
	}
	if nd.Rotation != nil {
		r := nd.Rotation
		n.Quaternion = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if nd.Scale != nil {
		n.Scale = mgl32.Vec3(*nd.Scale)
	}
}

// attachMesh adds one mesh instance per primitive of a mesh record to a node. The first use of a primitive
// builds its template; later uses clone it so geometry and material are shared.
func (p *gltfParser) attachMesh(ctx context.Context, n *scene.Node, meshID string, nd *gltfNode) error {
	md, ok := p.doc.Meshes.Get(meshID)
	if !ok {
		return fmt.Errorf("mesh %s not found", meshID)
	}

	for i := range md.Primitives {
		key := primitiveKey{mesh: meshID, index: i}

		var m *scene.Mesh
		if tmpl, ok := p.templates[key]; ok {
			clone, err := tmpl.Clone()
			if err != nil {
				return err
			}
			m = clone
		} else {
			prim := &md.Primitives[i]
			g, err := p.buildGeometry(ctx, key, prim, md.Weights)
			if err != nil {
				return fmt.Errorf("mesh %s primitive %d: %w", meshID, i, err)
			}

			var mat material.Material
			if matID, ok := refOf(prim.Material); ok {
				mat = p.materials[matID]
			}
			if mat == nil {
				mat = material.NewBasicMaterial()
			}

			m = scene.NewMesh(g, mat)
			name := md.Name
			if name == "" {
				name = meshID
			}
			m.Name = "mesh-" + name

			if skinID, ok := refOf(nd.Skin); ok {
				if m.Skin, err = p.buildSkin(skinID); err != nil {
					return fmt.Errorf("mesh %s: %w", meshID, err)
				}
			}
			p.templates[key] = m
		}

		n.AddMesh(m)
		p.meshes = append(p.meshes, m)
	}
	return nil
}

// buildSkin reads a skin record. Each inverse bind matrix is right-multiplied by the 1.0 bind shape matrix
// when present. Joint names are the 1.0 joint names or the 2.0 joint node ids.
//
// Parameters:
//   - id: the skin id
//
// Returns:
//   - *scene.SkinnedMesh: the unresolved skin binding
//   - error: an error if the skin or its inverse bind matrices cannot be read
func (p *gltfParser) buildSkin(id string) (*scene.SkinnedMesh, error) {
	sd, ok := p.doc.Skins.Get(id)
	if !ok {
		return nil, fmt.Errorf("skin %s not found", id)
	}

	names := sd.JointNames
	if len(names) == 0 {
		names = make([]string, len(sd.Joints))
		for i, j := range sd.Joints {
			names[i] = j.String()
		}
	}

	skin := &scene.SkinnedMesh{
		JointNames:          names,
		InverseBindMatrices: make([]mgl32.Mat4, len(names)),
	}

	var values []float32
	if accID, ok := refOf(sd.InverseBindMatrices); ok {
		var err error
		if values, _, err = p.resolver.Float32s(accID); err != nil {
			return nil, fmt.Errorf("skin %s inverse bind matrices: %w", id, err)
		}
	}

	var bindShape *mgl32.Mat4
	if sd.BindShapeMatrix != nil {
		m := mgl32.Mat4(*sd.BindShapeMatrix)
		bindShape = &m
	}

	for i := range names {
		ibm := mgl32.Ident4()
		if end := (i + 1) * 16; end <= len(values) {
			ibm = common.Mat4FromSlice(values[i*16 : end])
		}
		if bindShape != nil {
			ibm = ibm.Mul4(*bindShape)
		}
		skin.InverseBindMatrices[i] = ibm
	}
	return skin, nil
}

// parseCameras builds the perspective cameras of the document. Orthographic cameras are not supported and skipped.
func (p *gltfParser) parseCameras() {
	for _, id := range p.doc.Cameras.Keys() {
		cd, _ := p.doc.Cameras.Get(id)
		if cd.Type != "perspective" || cd.Perspective == nil {
			p.logger.Warn("unsupported camera type", "camera", id, "type", cd.Type)
			continue
		}
		pd := cd.Perspective

		name := cd.Name
		if name == "" {
			name = id
		}
		opts := []camera.CameraBuilderOption{
			camera.WithName(name),
			camera.WithFov(mgl32.RadToDeg(pd.Yfov)),
			camera.WithAspect(common.Coalesce(ptrValue(pd.AspectRatio), defaultCameraAspect)),
			camera.WithNear(common.Coalesce(ptrValue(pd.Znear), defaultCameraNear)),
			camera.WithFar(common.Coalesce(ptrValue(pd.Zfar), defaultCameraFar)),
		}
		p.cameras[id] = camera.NewCamera(opts...)
	}
}

func ptrValue[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
