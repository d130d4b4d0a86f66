package light

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/config"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// CubeFaceDirections are the look directions of the cube faces in +X, -X, +Y, -Y, +Z, -Z order.
var CubeFaceDirections = [renderer.CubeFaceCount]mgl32.Vec3{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
}

// CubeFaceUps are the camera up vectors matching CubeFaceDirections.
var CubeFaceUps = [renderer.CubeFaceCount]mgl32.Vec3{
	{0, -1, 0},
	{0, -1, 0},
	{0, 0, 1},
	{0, 0, -1},
	{0, -1, 0},
	{0, -1, 0},
}

var shadowClearColor = common.Color{}

// ErrShadowDestroyed is returned when a destroyed shadow is asked to render.
var ErrShadowDestroyed = errors.New("cube shadow destroyed")

// CubeShadow renders the distance from a point light to the nearest shadow caster into the six faces of a cube map.
// A CubeShadow is driven from the rendering goroutine only.
type CubeShadow struct {
	// Size is the face edge length in texels.
	Size int
	// MinBias and MaxBias bound the slope-scaled depth bias of shadow lookups.
	MinBias, MaxBias float32

	light       Light
	destroyed   bool
	framebuffer renderer.CubeFramebuffer
	camera      camera.Camera
	material    *material.GeometryMaterial
	logger      *slog.Logger
}

// CubeShadowBuilderOption is a function that configures a CubeShadow during construction.
type CubeShadowBuilderOption func(*CubeShadow)

// WithShadowSize sets the face size.
//
// Parameters:
//   - size: the face edge length in texels
//
// Returns:
//   - CubeShadowBuilderOption: a function that sets the size
func WithShadowSize(size int) CubeShadowBuilderOption {
	return func(s *CubeShadow) {
		s.Size = size
	}
}

// WithShadowBias sets the bias bounds.
//
// Parameters:
//   - minBias, maxBias: the bias bounds
//
// Returns:
//   - CubeShadowBuilderOption: a function that sets the bias
func WithShadowBias(minBias, maxBias float32) CubeShadowBuilderOption {
	return func(s *CubeShadow) {
		s.MinBias = minBias
		s.MaxBias = maxBias
	}
}

// WithShadowConfig applies the size and bias of a config section.
//
// Parameters:
//   - c: the shadow config section
//
// Returns:
//   - CubeShadowBuilderOption: a function that applies the config
func WithShadowConfig(c config.Shadow) CubeShadowBuilderOption {
	return func(s *CubeShadow) {
		s.Size = common.Coalesce(c.Size, s.Size)
		s.MinBias = common.Coalesce(c.MinBias, s.MinBias)
		s.MaxBias = common.Coalesce(c.MaxBias, s.MaxBias)
	}
}

// WithShadowLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - CubeShadowBuilderOption: a function that sets the logger
func WithShadowLogger(logger *slog.Logger) CubeShadowBuilderOption {
	return func(s *CubeShadow) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCubeShadow creates the cube shadow of l. GPU resources are allocated on the first CreateShadowMap.
//
// Parameters:
//   - l: the light the shadow is rendered from
//   - opts: variadic list of CubeShadowBuilderOption functions
//
// Returns:
//   - *CubeShadow: the shadow
func NewCubeShadow(l Light, opts ...CubeShadowBuilderOption) *CubeShadow {
	s := &CubeShadow{
		Size:    config.DefaultShadowSize,
		MinBias: config.DefaultShadowMinBias,
		MaxBias: config.DefaultShadowMaxBias,
		light:   l,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Light returns the light the shadow belongs to.
func (s *CubeShadow) Light() Light {
	return s.light
}

// Framebuffer returns the cube render target, nil before CreateFramebuffer.
func (s *CubeShadow) Framebuffer() renderer.CubeFramebuffer {
	return s.framebuffer
}

// Camera returns the shadow camera, nil before the first CreateShadowMap.
func (s *CubeShadow) Camera() camera.Camera {
	return s.camera
}

// CreateFramebuffer allocates the cube render target on gpu. Repeated calls are no-ops.
// An incomplete framebuffer is logged and kept.
//
// Parameters:
//   - gpu: the device to allocate on
//
// Returns:
//   - error: an error if allocation fails
func (s *CubeShadow) CreateFramebuffer(gpu renderer.GPU) error {
	if s.destroyed {
		return ErrShadowDestroyed
	}
	if s.framebuffer != nil {
		return nil
	}

	fb, err := gpu.CreateCubeFramebuffer(renderer.CubeFramebufferDescriptor{
		Label:       "Cube Shadow " + s.light.Name(),
		Size:        s.Size,
		Format:      wgpu.TextureFormatRGBA8Unorm,
		DepthFormat: wgpu.TextureFormatDepth24Plus,
		Sampler: common.SamplerStagingData{
			AddressModeU:  wgpu.AddressModeClampToEdge,
			AddressModeV:  wgpu.AddressModeClampToEdge,
			AddressModeW:  wgpu.AddressModeClampToEdge,
			MagFilter:     wgpu.FilterModeNearest,
			MinFilter:     wgpu.FilterModeNearest,
			MipmapFilter:  wgpu.MipmapFilterModeNearest,
			LodMaxClamp:   0,
			MaxAnisotropy: 1,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create cube shadow framebuffer: %w", err)
	}
	if err := fb.Status(); err != nil {
		s.logger.Warn("framebuffer is not complete", "light", s.light.Name(), "error", err)
	}

	s.framebuffer = fb
	return nil
}

func (s *CubeShadow) ensureCamera() {
	if s.camera != nil {
		return
	}
	s.camera = camera.NewCamera(
		camera.WithName("Cube Shadow Camera"),
		camera.WithFov(90),
		camera.WithAspect(1),
	)
}

func (s *CubeShadow) ensureMaterial() {
	if s.material != nil {
		return
	}
	s.material = material.NewGeometryMaterial(
		material.VertexTypeDistance,
		material.WithName("Cube Shadow Material"),
		material.WithSide(material.SideBack),
	)
	s.material.WriteOriginData = false
}

// CreateShadowMap renders the six cube faces from the light position. The active camera, forced material
// and viewport of ctx are restored before returning.
//
// Parameters:
//   - ctx: the render context holding the frame's render list
//   - cam: the active scene camera; its near and far planes bound the shadow camera
//
// Returns:
//   - error: an error if the framebuffer cannot be created or bound
func (s *CubeShadow) CreateShadowMap(ctx renderer.RenderContext, cam camera.Camera) error {
	gpu := ctx.GPU()
	if err := s.CreateFramebuffer(gpu); err != nil {
		return err
	}
	s.ensureCamera()
	s.ensureMaterial()

	shadowCam := s.camera
	shadowCam.SetNear(cam.Near())
	shadowCam.SetFar(cam.Far())

	if err := s.framebuffer.Bind(); err != nil {
		return fmt.Errorf("failed to bind cube shadow framebuffer: %w", err)
	}
	gpu.Viewport(0, 0, s.framebuffer.Size(), s.framebuffer.Size())

	position := s.light.WorldMatrix().Col(3).Vec3()
	ctx.SetCamera(shadowCam)

	for face := 0; face < renderer.CubeFaceCount; face++ {
		if err := s.framebuffer.BindFace(face); err != nil {
			s.logger.Error("failed to bind cube face", "face", face, "error", err)
			continue
		}
		shadowCam.SetPosition(position)
		shadowCam.LookAt(position.Add(CubeFaceDirections[face]), CubeFaceUps[face])
		shadowCam.UpdateViewProjectionMatrix()

		gpu.Clear(shadowClearColor)
		ctx.SetForceMaterial(s.material)
		s.renderShadowCasters(ctx, shadowCam)
	}

	shadowCam.SetMatrix(mgl32.Ident4())
	shadowCam.UpdateViewProjectionMatrix()
	ctx.SetForceMaterial(nil)
	s.framebuffer.Unbind()
	ctx.SetCamera(cam)
	ctx.ResetViewport()
	return nil
}

func (s *CubeShadow) renderShadowCasters(ctx renderer.RenderContext, shadowCam camera.Camera) {
	for _, m := range ctx.RenderList() {
		if !m.CastsShadows() {
			continue
		}
		if m.FrustumTest {
			center, radius := m.WorldBoundingSphere()
			if !shadowCam.IsVisible(center, radius) {
				continue
			}
		}
		ctx.RenderMesh(m)
	}
}

// Destroy releases the framebuffer. A destroyed shadow cannot render again.
func (s *CubeShadow) Destroy() {
	if s.framebuffer != nil {
		s.framebuffer.Destroy()
		s.framebuffer = nil
	}
	s.destroyed = true
}
