package loader

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/light"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/chewxy/math32"
)

// ExtensionHandler is a plugin for a named glTF extension. Init runs for every extension listed in
// extensionsUsed, concurrently with resource loading and before any geometry is built.
// A handler may also implement PrimitiveParser, MaterialParser, NodeParser and TextureParser.
type ExtensionHandler interface {
	// Init prepares the handler for one load.
	//
	// Parameters:
	//   - ctx: cancels the initialization
	//   - lc: the resources of the load
	//   - pc: the parser state, shared with the other handlers of the load
	//
	// Returns:
	//   - error: an error aborts the load
	Init(ctx context.Context, lc *LoadContext, pc *ParserContext) error
}

// PrimitiveParser builds the geometry of a primitive that carries the handler's extension,
// replacing the standard attribute decoding.
type PrimitiveParser interface {
	// ParsePrimitive builds a geometry from the primitive's extension object.
	//
	// Parameters:
	//   - ctx: cancels the parse
	//   - ext: the raw extension object of the primitive
	//   - pc: the parser state
	//
	// Returns:
	//   - *model.Geometry: the geometry, or nil to fall back to the standard attributes
	//   - error: an error aborts the load
	ParsePrimitive(ctx context.Context, ext json.RawMessage, pc *ParserContext) (*model.Geometry, error)
}

// MaterialParser post-processes a material whose record carries the handler's extension.
type MaterialParser interface {
	// ParseMaterial returns the material to use in place of m.
	//
	// Parameters:
	//   - ctx: cancels the parse
	//   - ext: the raw extension object of the material
	//   - m: the material built from the record
	//   - pc: the parser state
	//
	// Returns:
	//   - material.Material: the resulting material, usually m
	//   - error: an error aborts the load
	ParseMaterial(ctx context.Context, ext json.RawMessage, m material.Material, pc *ParserContext) (material.Material, error)
}

// NodeParser post-processes a scene node whose record carries the handler's extension.
type NodeParser interface {
	// ParseNode updates the node.
	//
	// Parameters:
	//   - ctx: cancels the parse
	//   - ext: the raw extension object of the node
	//   - n: the node, already transformed and parented
	//   - pc: the parser state
	//
	// Returns:
	//   - error: an error aborts the load
	ParseNode(ctx context.Context, ext json.RawMessage, n *scene.Node, pc *ParserContext) error
}

// TextureParser post-processes a texture whose record carries the handler's extension.
type TextureParser interface {
	// ParseTexture updates the texture before its image is loaded.
	//
	// Parameters:
	//   - ctx: cancels the parse
	//   - ext: the raw extension object of the texture
	//   - t: the texture
	//   - pc: the parser state
	//
	// Returns:
	//   - error: an error aborts the texture load
	ParseTexture(ctx context.Context, ext json.RawMessage, t *texture.Texture, pc *ParserContext) error
}

var (
	globalExtensionsMu sync.RWMutex
	globalExtensions   = map[string]ExtensionHandler{}
)

func init() {
	RegisterExtension(extLightsPunctual, &lightsPunctualExtension{})
}

// RegisterExtension installs a handler for every loader. Handlers passed to WithExtension take precedence.
//
// Parameters:
//   - name: the extension name as it appears in extensionsUsed
//   - h: the handler, nil removes the registration
func RegisterExtension(name string, h ExtensionHandler) {
	globalExtensionsMu.Lock()
	defer globalExtensionsMu.Unlock()
	if h == nil {
		delete(globalExtensions, name)
		return
	}
	globalExtensions[name] = h
}

func globalExtension(name string) (ExtensionHandler, bool) {
	globalExtensionsMu.RLock()
	defer globalExtensionsMu.RUnlock()
	h, ok := globalExtensions[name]
	return h, ok
}

// LoadContext carries the resources of one load.
type LoadContext struct {
	// BaseDir is the directory relative URIs resolve against.
	BaseDir string

	// Resources fetches buffers and images.
	Resources ResourceLoader

	// Logger is the loader's logger.
	Logger *slog.Logger
}

// ParserContext exposes the state of one parse to extension handlers. It is safe for concurrent use.
type ParserContext struct {
	// Version is the glTF version of the asset (1 or 2, possibly fractional).
	Version float64

	// IsBinary reports whether the asset came in a GLB container.
	IsBinary bool

	// JSON is the complete document.
	JSON json.RawMessage

	mu     sync.Mutex
	values map[string]any
	lights []light.Light
	parser *gltfParser
}

// Accessor resolves an accessor of the asset. Buffers are loaded by the time primitives, materials and nodes are parsed.
//
// Parameters:
//   - id: the accessor id
//   - decodeInShader: attach the decode matrix instead of dequantizing
//
// Returns:
//   - *model.GeometryData: the data
//   - error: an error if the accessor cannot be resolved
func (c *ParserContext) Accessor(id string, decodeInShader bool) (*model.GeometryData, error) {
	return c.parser.resolver.Resolve(id, decodeInShader)
}

// BufferView returns the bytes of a buffer view.
func (c *ParserContext) BufferView(id string) ([]byte, error) {
	b, _, err := c.parser.resolver.viewBytes(id)
	return b, err
}

// Texture returns a loaded texture by texture id.
func (c *ParserContext) Texture(id string) (*texture.Texture, bool) {
	return c.parser.textureByID(id)
}

// SetValue stores per-load handler state.
func (c *ParserContext) SetValue(key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = v
}

// Value returns per-load handler state stored with SetValue.
func (c *ParserContext) Value(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

// AddLight appends a light to the load result.
func (c *ParserContext) AddLight(l light.Light) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lights = append(c.lights, l)
}

func (c *ParserContext) takeLights() []light.Light {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.lights
	c.lights = nil
	return out
}

// --- KHR_lights_punctual ---

type gltfLightsPunctual struct {
	Lights []gltfPunctualLight `json:"lights"`
}

type gltfPunctualLight struct {
	Name      string    `json:"name,omitempty"`
	Type      string    `json:"type"`
	Color     []float32 `json:"color,omitempty"`
	Intensity *float32  `json:"intensity,omitempty"`
	Range     *float32  `json:"range,omitempty"`
	Spot      *struct {
		InnerConeAngle float32  `json:"innerConeAngle"`
		OuterConeAngle *float32 `json:"outerConeAngle,omitempty"`
	} `json:"spot,omitempty"`
}

type gltfNodeLight struct {
	Light int `json:"light"`
}

// lightsPunctualExtension instantiates KHR_lights_punctual lights on the nodes that reference them.
type lightsPunctualExtension struct{}

var (
	_ ExtensionHandler = &lightsPunctualExtension{}
	_ NodeParser       = &lightsPunctualExtension{}
)

func (e *lightsPunctualExtension) Init(ctx context.Context, lc *LoadContext, pc *ParserContext) error {
	var doc struct {
		Extensions extensions `json:"extensions"`
	}
	if err := json.Unmarshal(pc.JSON, &doc); err != nil {
		return err
	}
	var defs gltfLightsPunctual
	if _, err := doc.Extensions.decode(extLightsPunctual, &defs); err != nil {
		return err
	}
	pc.SetValue(extLightsPunctual, defs.Lights)
	return nil
}

func (e *lightsPunctualExtension) ParseNode(ctx context.Context, ext json.RawMessage, n *scene.Node, pc *ParserContext) error {
	var link gltfNodeLight
	if err := json.Unmarshal(ext, &link); err != nil {
		return err
	}
	v, _ := pc.Value(extLightsPunctual)
	defs, _ := v.([]gltfPunctualLight)
	if link.Light < 0 || link.Light >= len(defs) {
		return nil
	}
	def := defs[link.Light]

	opts := []light.LightBuilderOption{
		light.WithName(def.Name),
		light.WithNode(n),
	}
	if len(def.Color) > 0 {
		c := def.Color
		if len(c) > 3 {
			c = c[:3]
		}
		opts = append(opts, light.WithColor(common.NewColor(c)))
	}
	if def.Intensity != nil {
		opts = append(opts, light.WithIntensity(*def.Intensity))
	}
	if def.Range != nil {
		opts = append(opts, light.WithRange(*def.Range))
	}
	if def.Spot != nil {
		outer := float32(math32.Pi / 4)
		if def.Spot.OuterConeAngle != nil {
			outer = *def.Spot.OuterConeAngle
		}
		opts = append(opts, light.WithSpotCone(def.Spot.InnerConeAngle, outer))
	}

	switch light.LightType(def.Type) {
	case light.LightTypeDirectional, light.LightTypePoint, light.LightTypeSpot:
		pc.AddLight(light.NewLight(light.LightType(def.Type), opts...))
	}
	return nil
}
