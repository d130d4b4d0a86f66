package texture

import (
	"fmt"
	"sync"
)

// Handle is a GPU-side texture object owned by a rendering context.
type Handle interface {
	// Release frees the GPU resources of the handle.
	Release()
}

// Factory creates a GPU handle for a texture. It is called at most once per texture until the registry is reset.
type Factory func(t *Texture) (Handle, error)

type registryImpl struct {
	mu      sync.Mutex
	handles map[string]Handle
	factory Factory
}

// Registry caches GPU texture handles by texture ID for the lifetime of one rendering context.
// A registry is owned by the context that created it; there is no process-wide instance.
type Registry interface {
	// Acquire returns the cached handle for t, creating it with the registry's factory on first use.
	// A texture with NeedUpdate set is recreated and the stale handle is released.
	//
	// Parameters:
	//   - t: the texture to acquire a handle for
	//
	// Returns:
	//   - Handle: the GPU handle
	//   - error: an error if the factory fails
	Acquire(t *Texture) (Handle, error)

	// Get returns the cached handle for a texture ID without creating one.
	//
	// Parameters:
	//   - id: the texture ID
	//
	// Returns:
	//   - Handle: the handle or nil
	//   - bool: true if a handle is cached
	Get(id string) (Handle, bool)

	// Release releases and forgets the handle for a texture ID, if any.
	//
	// Parameters:
	//   - id: the texture ID
	Release(id string)

	// Len returns the number of cached handles.
	Len() int

	// Reset releases every cached handle. Called when the owning GPU context is lost or destroyed.
	Reset()
}

var _ Registry = &registryImpl{}

// NewRegistry creates an empty registry that creates handles with the given factory.
//
// Parameters:
//   - factory: the handle constructor, usually bound to a GPU device
//
// Returns:
//   - Registry: the registry
func NewRegistry(factory Factory) Registry {
	return &registryImpl{
		handles: make(map[string]Handle),
		factory: factory,
	}
}

func (r *registryImpl) Acquire(t *Texture) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[t.ID]; ok {
		if !t.NeedUpdate {
			return h, nil
		}
		h.Release()
		delete(r.handles, t.ID)
	}

	if r.factory == nil {
		return nil, fmt.Errorf("texture registry has no factory for %s", t.ID)
	}
	h, err := r.factory(t)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", t.ID, err)
	}

	r.handles[t.ID] = h
	t.NeedUpdate = false
	return h, nil
}

func (r *registryImpl) Get(id string) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[id]
	return h, ok
}

func (r *registryImpl) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[id]; ok {
		h.Release()
		delete(r.handles, id)
	}
}

func (r *registryImpl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *registryImpl) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.handles {
		h.Release()
		delete(r.handles, id)
	}
}
