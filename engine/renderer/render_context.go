package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// renderContextImpl is the implementation of the RenderContext interface.
type renderContextImpl struct {
	gpu           GPU
	camera        camera.Camera
	forceMaterial material.Material
	renderList    []*scene.Mesh

	width, height int

	// renderOption is the base option set every draw's material extends
	renderOption material.RenderOption

	pipelines       *pipeline.Cache
	pipelineOptions []pipeline.PipelineBuilderOption

	logger *slog.Logger
}

var _ RenderContext = &renderContextImpl{}

// NewRenderContext creates a RenderContext drawing with gpu.
//
// Parameters:
//   - gpu: the device draws are submitted to
//   - options: a variadic list of RenderContextBuilderOption functions
//
// Returns:
//   - RenderContext: the render context
func NewRenderContext(gpu GPU, options ...RenderContextBuilderOption) RenderContext {
	rc := &renderContextImpl{
		gpu:       gpu,
		camera:    camera.NewCamera(),
		width:     1,
		height:    1,
		pipelines: pipeline.NewCache(),
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(rc)
	}
	return rc
}

func (rc *renderContextImpl) GPU() GPU {
	return rc.gpu
}

func (rc *renderContextImpl) Camera() camera.Camera {
	return rc.camera
}

func (rc *renderContextImpl) SetCamera(c camera.Camera) {
	rc.camera = c
}

func (rc *renderContextImpl) ForceMaterial() material.Material {
	return rc.forceMaterial
}

func (rc *renderContextImpl) SetForceMaterial(m material.Material) {
	rc.forceMaterial = m
}

func (rc *renderContextImpl) RenderList() []*scene.Mesh {
	return rc.renderList
}

func (rc *renderContextImpl) SetRenderList(meshes []*scene.Mesh) {
	rc.renderList = meshes
}

func (rc *renderContextImpl) Pipelines() *pipeline.Cache {
	return rc.pipelines
}

func (rc *renderContextImpl) RenderMesh(m *scene.Mesh) {
	if m == nil || m.Geometry == nil {
		return
	}

	mat := rc.forceMaterial
	if mat == nil {
		mat = m.Material
	}
	if mat == nil {
		rc.logger.Warn("mesh has no material, skipping draw", "mesh", m.Name)
		return
	}

	opt := material.RenderOption{}
	for k, v := range rc.renderOption {
		opt[k] = v
	}
	p, err := pipeline.FromMaterial(mat, opt, m.Geometry.Mode, rc.pipelineOptions...)
	if err != nil {
		rc.logger.Error("failed to build pipeline", "mesh", m.Name, "error", err)
		return
	}
	p, _ = rc.pipelines.GetOrAdd(p)

	model := mgl32.Ident4()
	if n := m.Node(); n != nil {
		model = n.WorldMatrix()
	}

	if err := rc.gpu.Draw(DrawCall{
		Mesh:     m,
		Material: mat,
		Camera:   rc.camera,
		Pipeline: p,
		Model:    model,
	}); err != nil {
		rc.logger.Error("failed to draw mesh", "mesh", m.Name, "error", err)
	}
}

func (rc *renderContextImpl) ResetViewport() {
	rc.gpu.Viewport(0, 0, rc.width, rc.height)
}
