package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

// RenderContextBuilderOption is a functional option used to configure a RenderContext during construction.
type RenderContextBuilderOption func(*renderContextImpl)

// WithCamera sets the initially active camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - RenderContextBuilderOption: a function that sets the active camera
func WithCamera(c camera.Camera) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		rc.camera = c
	}
}

// WithSurfaceSize sets the output size ResetViewport restores.
//
// Parameters:
//   - width, height: the output size in pixels
//
// Returns:
//   - RenderContextBuilderOption: a function that sets the surface size
func WithSurfaceSize(width, height int) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		rc.width = width
		rc.height = height
	}
}

// WithRenderList sets the initially queued meshes.
//
// Parameters:
//   - meshes: the meshes to draw
//
// Returns:
//   - RenderContextBuilderOption: a function that sets the render list
func WithRenderList(meshes []*scene.Mesh) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		rc.renderList = meshes
	}
}

// WithRenderOption sets the base render options, e.g. HAS_LIGHT when the scene is lit.
//
// Parameters:
//   - opt: the base option set
//
// Returns:
//   - RenderContextBuilderOption: a function that sets the base render options
func WithRenderOption(opt material.RenderOption) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		rc.renderOption = opt
	}
}

// WithPipelineOptions appends builder options applied to every derived pipeline, e.g. target formats.
//
// Parameters:
//   - opts: the pipeline options
//
// Returns:
//   - RenderContextBuilderOption: a function that appends the pipeline options
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		rc.pipelineOptions = append(rc.pipelineOptions, opts...)
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RenderContextBuilderOption: a function that sets the logger
func WithLogger(logger *slog.Logger) RenderContextBuilderOption {
	return func(rc *renderContextImpl) {
		if logger != nil {
			rc.logger = logger
		}
	}
}
