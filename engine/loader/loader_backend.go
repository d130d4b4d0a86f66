package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// loaderBackend parses one model file format.
type loaderBackend interface {
	// parse builds a Result from raw asset bytes.
	//
	// Parameters:
	//   - ctx: cancels resource loading
	//   - l: the loader supplying options, resources and the worker pool
	//   - data: the asset bytes
	//   - baseDir: the directory external resources resolve against
	//
	// Returns:
	//   - *Result: the parsed asset
	//   - error: error if parsing fails
	parse(ctx context.Context, l *loader, data []byte, baseDir string) (*Result, error)
}

// gltfBackend parses glTF JSON documents and GLB containers. The container is detected from its magic,
// so one backend serves both extensions.
type gltfBackend struct{}

var _ loaderBackend = gltfBackend{}

func (gltfBackend) parse(ctx context.Context, l *loader, data []byte, baseDir string) (*Result, error) {
	return newGLTFParser(l, baseDir).parse(ctx, data)
}

func defaultBackends() map[string]loaderBackend {
	return map[string]loaderBackend{
		".gltf": gltfBackend{},
		".glb":  gltfBackend{},
	}
}

// resolveBackend selects a loader backend based on the file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	b, ok := l.backends[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported model format: %q", ext)
	}
	return b, nil
}
