package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// CubeFaceCount is the number of faces of a cube render target.
const CubeFaceCount = 6

// ErrFramebufferIncomplete is reported by CubeFramebuffer.Status when an attachment is missing.
var ErrFramebufferIncomplete = errors.New("framebuffer incomplete")

// CubeFramebufferDescriptor describes a square six-face render target.
type CubeFramebufferDescriptor struct {
	// Label is the debug label of the GPU objects.
	Label string

	// Size is the edge length of each face in texels.
	Size int

	// Format is the color attachment format.
	Format wgpu.TextureFormat

	// DepthFormat is the depth attachment format. Undefined disables the depth attachment.
	DepthFormat wgpu.TextureFormat

	// Sampler is the sampler state used when the cube is read back in shading.
	Sampler common.SamplerStagingData
}

// CubeFramebuffer is a render target with one color layer per cube face.
type CubeFramebuffer interface {
	// Size returns the face edge length in texels.
	//
	// Returns:
	//   - int: the face size
	Size() int

	// Bind makes the framebuffer the active render target.
	//
	// Returns:
	//   - error: an error if the framebuffer has been destroyed
	Bind() error

	// BindFace selects the cube face subsequent clears and draws target.
	//
	// Parameters:
	//   - face: the face index in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - error: an error if the face index is out of range
	BindFace(face int) error

	// Unbind restores the default render target.
	Unbind()

	// Status returns nil if every attachment exists, ErrFramebufferIncomplete otherwise.
	//
	// Returns:
	//   - error: the completeness status
	Status() error

	// Destroy releases the GPU resources. The framebuffer must not be used afterwards.
	Destroy()
}

// GPU is the low-level device used by render passes.
type GPU interface {
	// CreateCubeFramebuffer allocates a cube render target.
	//
	// Parameters:
	//   - desc: the target description
	//
	// Returns:
	//   - CubeFramebuffer: the render target
	//   - error: an error if allocation fails
	CreateCubeFramebuffer(desc CubeFramebufferDescriptor) (CubeFramebuffer, error)

	// Viewport sets the pixel rectangle subsequent draws map to.
	//
	// Parameters:
	//   - x, y: the lower left corner
	//   - width, height: the rectangle size
	Viewport(x, y, width, height int)

	// Clear clears the active render target to color and resets depth.
	//
	// Parameters:
	//   - color: the clear color
	Clear(color common.Color)

	// Draw submits a draw to the active render target with the active viewport.
	//
	// Parameters:
	//   - call: the draw to submit
	//
	// Returns:
	//   - error: an error if no render target is bound or submission fails
	Draw(call DrawCall) error
}

// DrawCall is a single mesh draw resolved against a camera and a pipeline.
type DrawCall struct {
	// Mesh is the drawn mesh.
	Mesh *scene.Mesh
	// Material is the material the mesh is shaded with, the forced material if one is set.
	Material material.Material
	// Camera is the camera the draw is projected with.
	Camera camera.Camera
	// Pipeline is the render state of the draw.
	Pipeline pipeline.Pipeline
	// Model is the world matrix of the mesh.
	Model mgl32.Mat4
}

// RenderContext is the shared per-frame render state: the active camera, the forced material override,
// the render list and the draw entry point. All mutation happens on a single rendering goroutine.
type RenderContext interface {
	// GPU returns the device the context draws with.
	//
	// Returns:
	//   - GPU: the device
	GPU() GPU

	// Camera returns the active camera.
	//
	// Returns:
	//   - camera.Camera: the active camera
	Camera() camera.Camera

	// SetCamera replaces the active camera.
	//
	// Parameters:
	//   - c: the camera to activate
	SetCamera(c camera.Camera)

	// ForceMaterial returns the material overriding every mesh's own material, or nil.
	//
	// Returns:
	//   - material.Material: the override or nil
	ForceMaterial() material.Material

	// SetForceMaterial sets or, with nil, removes the material override.
	//
	// Parameters:
	//   - m: the override material
	SetForceMaterial(m material.Material)

	// RenderList returns the meshes queued for this frame.
	//
	// Returns:
	//   - []*scene.Mesh: the queued meshes
	RenderList() []*scene.Mesh

	// SetRenderList replaces the meshes queued for this frame.
	//
	// Parameters:
	//   - meshes: the meshes to draw
	SetRenderList(meshes []*scene.Mesh)

	// Pipelines returns the pipeline cache shared by every draw of the context.
	//
	// Returns:
	//   - *pipeline.Cache: the cache
	Pipelines() *pipeline.Cache

	// RenderMesh draws a single mesh with the active camera and, if set, the forced material.
	//
	// Parameters:
	//   - m: the mesh to draw
	RenderMesh(m *scene.Mesh)

	// ResetViewport restores the viewport to the full output surface.
	ResetViewport()
}
