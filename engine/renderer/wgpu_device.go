package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// DrawEncoder records the commands of one draw into an open render pass.
// Shader modules, bind groups and vertex buffers are owned by the encoder.
type DrawEncoder func(pass *wgpu.RenderPassEncoder, call DrawCall) error

// WGPUDevice is a GPU backed by a WebGPU device and queue.
type WGPUDevice interface {
	GPU

	// Device returns the underlying WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the underlying WebGPU queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Capabilities returns the limits the device was requested with.
	//
	// Returns:
	//   - Capabilities: the device capabilities
	Capabilities() Capabilities

	// TextureFactory returns a texture.Factory uploading decoded textures to this device.
	//
	// Returns:
	//   - texture.Factory: the factory
	TextureFactory() texture.Factory
}

// wgpuDeviceImpl is the implementation of the WGPUDevice interface.
type wgpuDeviceImpl struct {
	mu sync.Mutex

	device *wgpu.Device
	queue  *wgpu.Queue
	limits wgpu.Limits

	bound    *wgpuCubeFramebuffer
	viewport [4]int

	drawEncoder DrawEncoder
	logger      *slog.Logger
}

var _ WGPUDevice = &wgpuDeviceImpl{}

// WGPUDeviceBuilderOption is a functional option used to configure a WGPUDevice during construction.
type WGPUDeviceBuilderOption func(*wgpuDeviceImpl)

// WithLimits sets the limits the device was requested with. Defaults to wgpu.DefaultLimits.
//
// Parameters:
//   - limits: the device limits
//
// Returns:
//   - WGPUDeviceBuilderOption: a function that sets the limits
func WithLimits(limits wgpu.Limits) WGPUDeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		d.limits = limits
	}
}

// WithDrawEncoder sets the function that records mesh draws. Without one, draws are dropped.
//
// Parameters:
//   - enc: the draw encoder
//
// Returns:
//   - WGPUDeviceBuilderOption: a function that sets the draw encoder
func WithDrawEncoder(enc DrawEncoder) WGPUDeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		d.drawEncoder = enc
	}
}

// WithDeviceLogger sets the structured logger of the device.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - WGPUDeviceBuilderOption: a function that sets the logger
func WithDeviceLogger(logger *slog.Logger) WGPUDeviceBuilderOption {
	return func(d *wgpuDeviceImpl) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewWGPUDevice wraps an existing WebGPU device and queue.
//
// Parameters:
//   - device: the WebGPU device
//   - queue: the device queue
//   - options: a variadic list of WGPUDeviceBuilderOption functions
//
// Returns:
//   - WGPUDevice: the GPU
func NewWGPUDevice(device *wgpu.Device, queue *wgpu.Queue, options ...WGPUDeviceBuilderOption) WGPUDevice {
	d := &wgpuDeviceImpl{
		device: device,
		queue:  queue,
		limits: wgpu.DefaultLimits(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// RequestHeadlessDevice requests an adapter and device without a presentation surface.
//
// Parameters:
//   - forceFallbackAdapter: request the software fallback adapter
//
// Returns:
//   - *wgpu.Device: the device
//   - *wgpu.Queue: the device queue
//   - error: an error if no adapter or device is available
func RequestHeadlessDevice(forceFallbackAdapter bool) (*wgpu.Device, *wgpu.Queue, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Headless Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to request device: %w", err)
	}
	return device, device.GetQueue(), nil
}

func (d *wgpuDeviceImpl) Device() *wgpu.Device {
	return d.device
}

func (d *wgpuDeviceImpl) Queue() *wgpu.Queue {
	return d.queue
}

func (d *wgpuDeviceImpl) Capabilities() Capabilities {
	return NewCapabilities(d.limits)
}

func (d *wgpuDeviceImpl) CreateCubeFramebuffer(desc CubeFramebufferDescriptor) (CubeFramebuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if desc.Size <= 0 {
		return nil, fmt.Errorf("invalid cube framebuffer size %d", desc.Size)
	}
	format := common.Coalesce(desc.Format, wgpu.TextureFormatRGBA8Unorm)
	size := uint32(desc.Size)
	fb := &wgpuCubeFramebuffer{owner: d, size: desc.Size, format: format, depthFormat: desc.DepthFormat}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label + " Cube Texture",
		Size: wgpu.Extent3D{
			Width:              size,
			Height:             size,
			DepthOrArrayLayers: CubeFaceCount,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cube texture: %w", err)
	}
	fb.texture = tex

	for face := 0; face < CubeFaceCount; face++ {
		view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
			Label:           fmt.Sprintf("%s Face %d", desc.Label, face),
			Format:          format,
			Dimension:       wgpu.TextureViewDimension2D,
			BaseMipLevel:    0,
			MipLevelCount:   1,
			BaseArrayLayer:  uint32(face),
			ArrayLayerCount: 1,
			Aspect:          wgpu.TextureAspectAll,
		})
		if err != nil {
			fb.release()
			return nil, fmt.Errorf("failed to create cube face view %d: %w", face, err)
		}
		fb.faceViews[face] = view
	}

	cubeView, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           desc.Label + " Cube View",
		Format:          format,
		Dimension:       wgpu.TextureViewDimensionCube,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: CubeFaceCount,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		fb.release()
		return nil, fmt.Errorf("failed to create cube view: %w", err)
	}
	fb.cubeView = cubeView

	if desc.DepthFormat != wgpu.TextureFormatUndefined {
		depth, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: desc.Label + " Depth Texture",
			Size: wgpu.Extent3D{
				Width:              size,
				Height:             size,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     wgpu.TextureDimension2D,
			Format:        desc.DepthFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			fb.release()
			return nil, fmt.Errorf("failed to create cube depth texture: %w", err)
		}
		fb.depthTexture = depth

		depthView, err := depth.CreateView(nil)
		if err != nil {
			fb.release()
			return nil, fmt.Errorf("failed to create cube depth view: %w", err)
		}
		fb.depthView = depthView
	}

	samp, err := d.createSampler(desc.Label+" Cube Sampler", desc.Sampler)
	if err != nil {
		fb.release()
		return nil, err
	}
	fb.sampler = samp

	return fb, nil
}

func (d *wgpuDeviceImpl) createSampler(label string, s common.SamplerStagingData) (*wgpu.Sampler, error) {
	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(s.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
		Compare:       s.Compare,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler: %w", err)
	}
	return samp, nil
}

func (d *wgpuDeviceImpl) Viewport(x, y, width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.viewport = [4]int{x, y, width, height}
}

func (d *wgpuDeviceImpl) Clear(color common.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bound == nil {
		d.logger.Warn("clear without a bound render target")
		return
	}

	err := d.submitPass(d.bound, wgpu.LoadOpClear, color, nil)
	if err != nil {
		d.logger.Error("failed to clear render target", "error", err)
	}
}

func (d *wgpuDeviceImpl) Draw(call DrawCall) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.bound == nil {
		return errors.New("draw without a bound render target")
	}
	if d.drawEncoder == nil {
		d.logger.Debug("no draw encoder configured, dropping draw", "mesh", call.Mesh.Name)
		return nil
	}

	var drawErr error
	err := d.submitPass(d.bound, wgpu.LoadOpLoad, common.Color{}, func(pass *wgpu.RenderPassEncoder) {
		vp := d.viewport
		if vp[2] > 0 && vp[3] > 0 {
			pass.SetViewport(float32(vp[0]), float32(vp[1]), float32(vp[2]), float32(vp[3]), 0, 1)
		}
		drawErr = d.drawEncoder(pass, call)
	})
	if err != nil {
		return err
	}
	return drawErr
}

// submitPass encodes and submits one render pass over the bound face. Callers hold d.mu.
func (d *wgpuDeviceImpl) submitPass(fb *wgpuCubeFramebuffer, load wgpu.LoadOp, clear common.Color, record func(*wgpu.RenderPassEncoder)) error {
	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	desc := &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    fb.faceViews[fb.face],
			LoadOp:  load,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(clear.R),
				G: float64(clear.G),
				B: float64(clear.B),
				A: float64(clear.A),
			},
		}},
	}
	if fb.depthView != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            fb.depthView,
			DepthLoadOp:     load,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}

	pass := encoder.BeginRenderPass(desc)
	if record != nil {
		record(pass)
	}
	pass.End()

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	d.queue.Submit(cmd)
	cmd.Release()
	return nil
}

func (d *wgpuDeviceImpl) TextureFactory() texture.Factory {
	return func(t *texture.Texture) (texture.Handle, error) {
		staging, err := t.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode texture %s: %w", t.ID, err)
		}

		d.mu.Lock()
		defer d.mu.Unlock()

		mips := uint32(1)
		usage := wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
		tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:     t.ID + " Texture",
			Usage:     usage,
			Dimension: wgpu.TextureDimension2D,
			Size: wgpu.Extent3D{
				Width:              staging.Width,
				Height:             staging.Height,
				DepthOrArrayLayers: 1,
			},
			Format:        t.Format,
			MipLevelCount: mips,
			SampleCount:   1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create texture %s: %w", t.ID, err)
		}

		d.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{},
				Aspect:   wgpu.TextureAspectAll,
			},
			staging.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  staging.Width * 4,
				RowsPerImage: staging.Height,
			},
			&wgpu.Extent3D{
				Width:              staging.Width,
				Height:             staging.Height,
				DepthOrArrayLayers: 1,
			},
		)

		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return nil, fmt.Errorf("failed to create texture view %s: %w", t.ID, err)
		}

		samp, err := d.createSampler(t.ID+" Sampler", t.SamplerData())
		if err != nil {
			view.Release()
			tex.Release()
			return nil, err
		}

		return &TextureHandle{Texture: tex, View: view, Sampler: samp}, nil
	}
}

// TextureHandle is the GPU side of an uploaded texture.
type TextureHandle struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler
}

func (h *TextureHandle) Release() {
	if h.Sampler != nil {
		h.Sampler.Release()
	}
	if h.View != nil {
		h.View.Release()
	}
	if h.Texture != nil {
		h.Texture.Release()
	}
}

// wgpuCubeFramebuffer is the WebGPU implementation of the CubeFramebuffer interface.
type wgpuCubeFramebuffer struct {
	owner *wgpuDeviceImpl

	size        int
	format      wgpu.TextureFormat
	depthFormat wgpu.TextureFormat
	face        int

	texture      *wgpu.Texture
	faceViews    [CubeFaceCount]*wgpu.TextureView
	cubeView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView
	sampler      *wgpu.Sampler

	destroyed bool
}

var _ CubeFramebuffer = &wgpuCubeFramebuffer{}

func (fb *wgpuCubeFramebuffer) Size() int {
	return fb.size
}

func (fb *wgpuCubeFramebuffer) Bind() error {
	if fb.destroyed {
		return errors.New("framebuffer destroyed")
	}
	fb.owner.mu.Lock()
	fb.owner.bound = fb
	fb.owner.mu.Unlock()
	return nil
}

func (fb *wgpuCubeFramebuffer) BindFace(face int) error {
	if face < 0 || face >= CubeFaceCount {
		return fmt.Errorf("cube face %d out of range", face)
	}
	fb.owner.mu.Lock()
	fb.face = face
	fb.owner.mu.Unlock()
	return nil
}

func (fb *wgpuCubeFramebuffer) Unbind() {
	fb.owner.mu.Lock()
	if fb.owner.bound == fb {
		fb.owner.bound = nil
	}
	fb.owner.mu.Unlock()
}

func (fb *wgpuCubeFramebuffer) Status() error {
	if fb.destroyed || fb.texture == nil || fb.cubeView == nil || fb.sampler == nil {
		return ErrFramebufferIncomplete
	}
	for _, v := range fb.faceViews {
		if v == nil {
			return ErrFramebufferIncomplete
		}
	}
	if fb.depthFormat != wgpu.TextureFormatUndefined && fb.depthView == nil {
		return ErrFramebufferIncomplete
	}
	return nil
}

// CubeView returns the cube-dimension view used to sample the rendered faces.
func (fb *wgpuCubeFramebuffer) CubeView() *wgpu.TextureView {
	return fb.cubeView
}

// Sampler returns the sampler created from the descriptor.
func (fb *wgpuCubeFramebuffer) Sampler() *wgpu.Sampler {
	return fb.sampler
}

func (fb *wgpuCubeFramebuffer) Destroy() {
	if fb.destroyed {
		return
	}
	fb.Unbind()
	fb.release()
	fb.destroyed = true
}

func (fb *wgpuCubeFramebuffer) release() {
	if fb.sampler != nil {
		fb.sampler.Release()
		fb.sampler = nil
	}
	if fb.depthView != nil {
		fb.depthView.Release()
		fb.depthView = nil
	}
	if fb.depthTexture != nil {
		fb.depthTexture.Release()
		fb.depthTexture = nil
	}
	if fb.cubeView != nil {
		fb.cubeView.Release()
		fb.cubeView = nil
	}
	for i, v := range fb.faceViews {
		if v != nil {
			v.Release()
			fb.faceViews[i] = nil
		}
	}
	if fb.texture != nil {
		fb.texture.Release()
		fb.texture = nil
	}
}
