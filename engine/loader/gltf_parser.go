package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

// binaryBufferV1 is the buffer id glTF 1.0 uses for the body of a GLB container.
const binaryBufferV1 = "binary_glTF"

// gltfParser holds the state of one asset parse. A parser is used once.
type gltfParser struct {
	l       *loader
	logger  *slog.Logger
	baseDir string

	raw      []byte
	doc      *gltfDocument
	version  float64
	isGLTF2  bool
	isBinary bool
	body     []byte

	extensionsUsed     map[string]bool
	unquantizeInShader bool

	buffersMu sync.Mutex
	buffers   map[string][]byte
	resolver  *accessorResolver

	texturesMu  sync.Mutex
	textures    *textureSet
	pending     sync.WaitGroup
	pendingErrs []error

	materials map[string]material.Material
	templates map[primitiveKey]*scene.Mesh
	jointMap  map[string]*scene.Node
	meshes    []*scene.Mesh
	cameras   map[string]camera.Camera

	pc *ParserContext
	lc *LoadContext
}

func newGLTFParser(l *loader, baseDir string) *gltfParser {
	return &gltfParser{
		l:         l,
		logger:    l.logger,
		baseDir:   baseDir,
		buffers:   make(map[string][]byte),
		textures:  newTextureSet(),
		materials: make(map[string]material.Material),
		templates: make(map[primitiveKey]*scene.Mesh),
		jointMap:  make(map[string]*scene.Node),
		cameras:   make(map[string]camera.Camera),
	}
}

// parse decodes an asset (GLB or glTF JSON), loads its resources and builds the scene.
//
// Parameters:
//   - ctx: cancels resource loading
//   - data: the asset bytes
//
// Returns:
//   - *Result: the parsed scene
//   - error: an error if the asset cannot be decoded or a resource cannot be loaded
func (p *gltfParser) parse(ctx context.Context, data []byte) (*Result, error) {
	prof := profiler.New(p.logger, p.baseDir)
	defer prof.Done()

	if err := p.decode(data); err != nil {
		return nil, err
	}
	prof.Mark("decode")
	if err := p.loadResources(ctx); err != nil {
		return nil, err
	}
	prof.Mark("resources")
	res, err := p.parseScene(ctx)
	prof.Mark("scene")
	return res, err
}

// decode splits off a GLB container and unmarshals the document.
func (p *gltfParser) decode(data []byte) error {
	raw := data
	if isGLB(data) {
		c, err := parseGLB(data)
		if err != nil {
			return fmt.Errorf("failed to parse GLB: %w", err)
		}
		p.isBinary = true
		raw = c.JSON
		p.body = c.Body
	}

	var doc gltfDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	p.raw = raw
	p.doc = &doc

	p.version = parseVersion(doc.Asset.Version)
	p.isGLTF2 = p.version >= 2

	p.extensionsUsed = make(map[string]bool, len(doc.ExtensionsUsed))
	for _, name := range doc.ExtensionsUsed {
		p.extensionsUsed[name] = true
	}
	p.unquantizeInShader = p.l.unquantizeInShader && p.extensionsUsed[extQuantizedAttributes]

	p.resolver = newAccessorResolver(p.doc, p.buffers)
	p.pc = &ParserContext{
		Version:  p.version,
		IsBinary: p.isBinary,
		JSON:     json.RawMessage(raw),
		parser:   p,
	}
	p.lc = &LoadContext{
		BaseDir:   p.baseDir,
		Resources: p.l.resources,
		Logger:    p.logger,
	}
	return nil
}

// parseVersion reads the numeric asset version. A missing or malformed version is treated as 1.0.
func parseVersion(v string) float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 1
	}
	return f
}

// extensionHandler returns the handler for an extension, preferring the loader's own handlers over global ones.
func (p *gltfParser) extensionHandler(name string) (ExtensionHandler, bool) {
	if h, ok := p.l.extensions[name]; ok {
		return h, true
	}
	return globalExtension(name)
}

// loadResources fetches buffers and images and initializes extensions.
//
// A GLB loads its buffers first and its textures afterwards, since embedded images live in the binary body.
// A plain glTF loads buffers and URI images in one join. Images stored in buffer views are sliced once
// buffers are in. In progressive mode URI images load in the background and are awaited by Result.Pending.
func (p *gltfParser) loadResources(ctx context.Context) error {
	jobs, err := p.createTextures(ctx)
	if err != nil {
		return err
	}
	var uriJobs, viewJobs []imageJob
	for _, job := range jobs {
		if job.viewID != "" {
			viewJobs = append(viewJobs, job)
		} else {
			uriJobs = append(uriJobs, job)
		}
	}

	tasks, err := p.bufferTasks()
	if err != nil {
		return err
	}
	tasks = append(tasks, p.initTasks()...)

	if p.l.progressive {
		p.loadInBackground(ctx, uriJobs)
	} else if !p.isBinary {
		tasks = append(tasks, imageTasks(p, uriJobs)...)
	}

	if err := p.join(ctx, tasks); err != nil {
		return err
	}

	for _, job := range viewJobs {
		if err := p.loadImage(ctx, job); err != nil {
			return err
		}
	}

	if p.isBinary && !p.l.progressive {
		if err := p.join(ctx, imageTasks(p, uriJobs)); err != nil {
			return err
		}
	}
	return nil
}

func (p *gltfParser) bufferTasks() ([]func(context.Context) error, error) {
	var tasks []func(context.Context) error
	for i, id := range p.doc.Buffers.Keys() {
		buf, _ := p.doc.Buffers.Get(id)

		if p.isBinary && p.usesBody(i, id, buf) {
			p.buffers[id] = p.body
			continue
		}
		if buf.URI == "" {
			return nil, fmt.Errorf("buffer %s has no URI and no GLB body", id)
		}

		tasks = append(tasks, func(ctx context.Context) error {
			data, err := p.l.resources.LoadResource(ctx, relativePath(p.baseDir, buf.URI), ResourceKindBuffer)
			if err != nil {
				return fmt.Errorf("failed to load buffer %s: %w", id, err)
			}
			if len(data) < buf.ByteLength {
				return fmt.Errorf("buffer %s: have %d bytes, declared %d", id, len(data), buf.ByteLength)
			}
			p.buffersMu.Lock()
			p.buffers[id] = data
			p.buffersMu.Unlock()
			return nil
		})
	}

	// 1.0 containers may omit the buffer record of the body.
	if p.isBinary && !p.isGLTF2 {
		if _, ok := p.buffers[binaryBufferV1]; !ok {
			p.buffers[binaryBufferV1] = p.body
		}
	}
	return tasks, nil
}

// usesBody reports whether a buffer refers to the GLB body: the first URI-less buffer in 2.0,
// the "binary_glTF" buffer in 1.0.
func (p *gltfParser) usesBody(i int, id string, buf *gltfBuffer) bool {
	if p.isGLTF2 {
		return i == 0 && buf.URI == ""
	}
	return id == binaryBufferV1
}

func (p *gltfParser) initTasks() []func(context.Context) error {
	var tasks []func(context.Context) error
	for _, name := range p.doc.ExtensionsUsed {
		h, ok := p.extensionHandler(name)
		if !ok {
			continue
		}
		tasks = append(tasks, func(ctx context.Context) error {
			if err := h.Init(ctx, p.lc, p.pc); err != nil {
				return fmt.Errorf("failed to initialize extension %s: %w", name, err)
			}
			return nil
		})
	}
	return tasks
}

// join runs tasks on the loader's worker pool and waits for all of them.
//
// Parameters:
//   - ctx: checked before each task starts
//   - tasks: the tasks
//
// Returns:
//   - error: every task error joined, or nil
func (p *gltfParser) join(ctx context.Context, tasks []func(context.Context) error) error {
	if len(tasks) == 0 {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, task := range tasks {
		wg.Add(1)
		p.l.workerPool().SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()

				err := ctx.Err()
				if err == nil {
					err = task(ctx)
				}
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
				return nil, err
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

// loadInBackground starts image loads without waiting for them. Failures are collected for Result.Pending.
func (p *gltfParser) loadInBackground(ctx context.Context, jobs []imageJob) {
	for i, job := range jobs {
		p.pending.Add(1)
		p.l.workerPool().SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer p.pending.Done()
				err := p.loadImage(ctx, job)
				if err != nil {
					p.texturesMu.Lock()
					p.pendingErrs = append(p.pendingErrs, err)
					p.texturesMu.Unlock()
				}
				return nil, err
			},
		})
	}
}

// wait blocks until every background image load finished.
func (p *gltfParser) wait() error {
	p.pending.Wait()
	p.texturesMu.Lock()
	defer p.texturesMu.Unlock()
	return errors.Join(p.pendingErrs...)
}
