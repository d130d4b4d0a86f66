// Package renderertest provides a recording GPU for tests of render passes.
package renderertest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// EventKind identifies a recorded GPU call.
type EventKind string

const (
	EventCreate   EventKind = "create"
	EventBind     EventKind = "bind"
	EventBindFace EventKind = "face"
	EventUnbind   EventKind = "unbind"
	EventViewport EventKind = "viewport"
	EventClear    EventKind = "clear"
	EventDraw     EventKind = "draw"
	EventDestroy  EventKind = "destroy"
)

// Event is one recorded call.
type Event struct {
	Kind     EventKind
	Face     int
	Viewport [4]int
	Color    common.Color
	Draw     renderer.DrawCall

	// ViewProjection, CameraDirection and CameraUp are the camera state at draw time.
	ViewProjection  mgl32.Mat4
	CameraDirection mgl32.Vec3
	CameraUp        mgl32.Vec3
}

// GPU records every call made to it. The zero value is not usable, use NewGPU.
type GPU struct {
	mu     sync.Mutex
	events []Event

	// Incomplete makes created framebuffers report an incomplete status.
	Incomplete bool

	// Created holds every framebuffer descriptor passed to CreateCubeFramebuffer.
	Created []renderer.CubeFramebufferDescriptor
}

var _ renderer.GPU = &GPU{}

// NewGPU returns an empty recorder.
func NewGPU() *GPU {
	return &GPU{}
}

// Events returns a copy of the recorded calls.
func (g *GPU) Events() []Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Event(nil), g.events...)
}

// EventsOf returns the recorded calls of one kind.
func (g *GPU) EventsOf(kind EventKind) []Event {
	var out []Event
	for _, e := range g.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (g *GPU) record(e Event) {
	g.mu.Lock()
	g.events = append(g.events, e)
	g.mu.Unlock()
}

func (g *GPU) CreateCubeFramebuffer(desc renderer.CubeFramebufferDescriptor) (renderer.CubeFramebuffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("invalid cube framebuffer size %d", desc.Size)
	}
	g.mu.Lock()
	g.Created = append(g.Created, desc)
	g.mu.Unlock()
	g.record(Event{Kind: EventCreate})
	return &Framebuffer{gpu: g, size: desc.Size, incomplete: g.Incomplete}, nil
}

func (g *GPU) Viewport(x, y, width, height int) {
	g.record(Event{Kind: EventViewport, Viewport: [4]int{x, y, width, height}})
}

func (g *GPU) Clear(color common.Color) {
	g.record(Event{Kind: EventClear, Color: color})
}

func (g *GPU) Draw(call renderer.DrawCall) error {
	e := Event{Kind: EventDraw, Draw: call}
	if call.Camera != nil {
		e.ViewProjection = call.Camera.ViewProjectionMatrix()
		e.CameraDirection = call.Camera.Direction()
		e.CameraUp = call.Camera.Up()
	}
	g.record(e)
	return nil
}

// Framebuffer is the recorded CubeFramebuffer.
type Framebuffer struct {
	gpu        *GPU
	size       int
	incomplete bool
	destroyed  bool
}

var _ renderer.CubeFramebuffer = &Framebuffer{}

func (f *Framebuffer) Size() int {
	return f.size
}

func (f *Framebuffer) Bind() error {
	if f.destroyed {
		return fmt.Errorf("framebuffer destroyed")
	}
	f.gpu.record(Event{Kind: EventBind})
	return nil
}

func (f *Framebuffer) BindFace(face int) error {
	if face < 0 || face >= renderer.CubeFaceCount {
		return fmt.Errorf("cube face %d out of range", face)
	}
	f.gpu.record(Event{Kind: EventBindFace, Face: face})
	return nil
}

func (f *Framebuffer) Unbind() {
	f.gpu.record(Event{Kind: EventUnbind})
}

func (f *Framebuffer) Status() error {
	if f.incomplete || f.destroyed {
		return renderer.ErrFramebufferIncomplete
	}
	return nil
}

// Destroyed reports whether Destroy was called.
func (f *Framebuffer) Destroyed() bool {
	return f.destroyed
}

func (f *Framebuffer) Destroy() {
	f.destroyed = true
	f.gpu.record(Event{Kind: EventDestroy})
}
