package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gltf/engine/config"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithConfig applies the loader section of an engine configuration.
//
// Parameters:
//   - c: the loader configuration
//
// Returns:
//   - LoaderBuilderOption: a function that applies the configuration to a loader
func WithConfig(c config.Loader) LoaderBuilderOption {
	return func(l *loader) {
		l.unquantizeInShader = c.UnquantizeInShader
		l.progressive = c.Progressive
		l.baseDir = c.BaseDir
		if c.Workers > 0 {
			l.workers = c.Workers
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithResourceLoader replaces the file system resource loader.
//
// Parameters:
//   - r: the resource loader
//
// Returns:
//   - LoaderBuilderOption: a function that applies the resource loader option to a loader
func WithResourceLoader(r ResourceLoader) LoaderBuilderOption {
	return func(l *loader) {
		if r != nil {
			l.resources = r
		}
	}
}

// WithExtension adds an extension handler for this loader only. It shadows a global handler of the same name.
//
// Parameters:
//   - name: the extension name, e.g. "KHR_draco_mesh_compression"
//   - h: the handler
//
// Returns:
//   - LoaderBuilderOption: a function that applies the extension option to a loader
func WithExtension(name string, h ExtensionHandler) LoaderBuilderOption {
	return func(l *loader) {
		l.extensions[name] = h
	}
}

// WithMaterialFactory replaces the built-in material construction.
func WithMaterialFactory(f MaterialFactory) LoaderBuilderOption {
	return func(l *loader) {
		l.materialFactory = f
	}
}

// WithImageURIHook rewrites every image URI after it was resolved against the base directory.
func WithImageURIHook(hook func(uri string) string) LoaderBuilderOption {
	return func(l *loader) {
		l.imageURIHook = hook
	}
}

// WithProgressive returns from Load before textures are loaded. Result.Pending waits for them.
func WithProgressive(progressive bool) LoaderBuilderOption {
	return func(l *loader) {
		l.progressive = progressive
	}
}

// WithUnquantizeInShader keeps WEB3D_quantized_attributes data packed and attaches the decode matrices
// to the geometry instead of decoding on load.
func WithUnquantizeInShader(unquantize bool) LoaderBuilderOption {
	return func(l *loader) {
		l.unquantizeInShader = unquantize
	}
}

// WithTextureRegistry uploads every loaded texture through a registry. Clear resets it.
//
// Parameters:
//   - r: the registry of the rendering context textures are uploaded to
//
// Returns:
//   - LoaderBuilderOption: a function that applies the registry option to a loader
func WithTextureRegistry(r texture.Registry) LoaderBuilderOption {
	return func(l *loader) {
		l.registry = r
	}
}

// WithWorkers sets the size of the resource loading worker pool.
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithWorkerPool shares an existing worker pool instead of creating one.
func WithWorkerPool(pool worker.DynamicWorkerPool) LoaderBuilderOption {
	return func(l *loader) {
		l.pool = pool
	}
}

// WithBaseDir sets the directory relative Load paths resolve against.
func WithBaseDir(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}
