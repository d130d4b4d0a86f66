package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/camera"
	"github.com/Carmen-Shannon/oxy-gltf/engine/config"
	"github.com/Carmen-Shannon/oxy-gltf/engine/light"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
)

// Result is everything a loaded asset yields.
type Result struct {
	// Node is the root of the default scene. It has no transform of its own.
	Node *scene.Node

	// Meshes are all mesh instances in the graph, in traversal order.
	Meshes []*scene.Mesh

	// Cameras are the perspective cameras of the asset, also attached to their nodes.
	Cameras []camera.Camera

	// Lights are lights produced by extension handlers.
	Lights []light.Light

	// Textures are the loaded textures including uv variants.
	Textures []*texture.Texture

	// Materials are the asset's materials in document order.
	Materials []material.Material

	// Anim is the flattened animation, nil when the asset has none.
	Anim *model.Animation

	// JSON is the raw glTF document.
	JSON json.RawMessage

	wait func() error
}

// Pending blocks until textures still loading in progressive mode are done and returns their errors.
// It returns nil immediately for non-progressive loads.
func (r *Result) Pending() error {
	if r.wait == nil {
		return nil
	}
	return r.wait()
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]*Result
	backends   map[string]loaderBackend

	logger          *slog.Logger
	resources       ResourceLoader
	extensions      map[string]ExtensionHandler
	materialFactory MaterialFactory
	imageURIHook    func(uri string) string
	registry        texture.Registry

	baseDir            string
	progressive        bool
	unquantizeInShader bool
	workers            int

	poolOnce sync.Once
	pool     worker.DynamicWorkerPool
}

// Loader loads glTF 1.0 and 2.0 assets, JSON or GLB, into scene graphs and caches them by path.
type Loader interface {
	// Load reads and parses the asset at path. A path loaded before is returned from the cache.
	// The backend is selected by file extension (.gltf or .glb).
	//
	// Parameters:
	//   - ctx: cancels resource loading
	//   - path: the asset path, resolved against the configured base directory when relative
	//
	// Returns:
	//   - *Result: the loaded asset
	//   - error: an error if the asset or one of its resources cannot be loaded
	Load(ctx context.Context, path string) (*Result, error)

	// Parse parses asset bytes without caching them.
	//
	// Parameters:
	//   - ctx: cancels resource loading
	//   - data: a GLB container or a glTF JSON document
	//   - baseDir: the directory external resources resolve against
	//
	// Returns:
	//   - *Result: the parsed asset
	//   - error: an error if the asset or one of its resources cannot be loaded
	Parse(ctx context.Context, data []byte, baseDir string) (*Result, error)

	// Get returns a cached result by path, or nil.
	//
	// Parameters:
	//   - path: the path the asset was loaded with
	//
	// Returns:
	//   - *Result: the cached result or nil
	Get(path string) *Result

	// Clear drops every cached result and resets the texture registry, releasing its GPU handles.
	Clear()
}

var _ Loader = &loader{}

// NewLoader creates a Loader with the given options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache: make(map[string]*Result),
		backends:   defaultBackends(),
		logger:     slog.Default(),
		resources:  NewFileResourceLoader(nil),
		extensions: make(map[string]ExtensionHandler),
		workers:    config.DefaultWorkers,
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(ctx context.Context, path string) (*Result, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	full := path
	if l.baseDir != "" && !filepath.IsAbs(path) {
		full = filepath.Join(l.baseDir, path)
	}

	data, err := l.resources.LoadResource(ctx, full, ResourceKindModel)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := backend.parse(ctx, l, data, filepath.Dir(full))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	l.mu.Lock()
	l.modelCache[path] = res
	l.mu.Unlock()

	l.logger.Debug("loaded model", "path", path, "meshes", len(res.Meshes), "textures", len(res.Textures))
	return res, nil
}

func (l *loader) Parse(ctx context.Context, data []byte, baseDir string) (*Result, error) {
	res, err := l.backends[".gltf"].parse(ctx, l, data, baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return res, nil
}

func (l *loader) Get(path string) *Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[path]
}

func (l *loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.modelCache = make(map[string]*Result)
	if l.registry != nil {
		l.registry.Reset()
	}
}

// workerPool returns the resource loading pool, creating it on first use.
func (l *loader) workerPool() worker.DynamicWorkerPool {
	l.poolOnce.Do(func() {
		if l.pool == nil {
			l.pool = worker.NewDynamicWorkerPool(l.workers, 256, 1*time.Second)
		}
	})
	return l.pool
}
