package light

import (
	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType string

const (
	// LightTypeDirectional represents a light with no position, only direction.
	LightTypeDirectional LightType = "directional"

	// LightTypePoint represents a light that emits in all directions from a position.
	// Point lights cast shadows through a cube shadow map.
	LightTypePoint LightType = "point"

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	LightTypeSpot LightType = "spot"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType  LightType
	name       string
	node       *scene.Node
	position   mgl32.Vec3
	color      common.Color
	intensity  float32
	lightRange float32
	innerCone  float32 // stored as cos(angle)
	outerCone  float32 // stored as cos(angle)

	castsShadows  bool
	shadow        *CubeShadow
	shadowOptions []CubeShadowBuilderOption
}

// Light defines the interface for a light source in the scene.
//
// A light takes its world transform from the scene node it is attached to. Lights without a node
// are placed at their own position and point down -Z.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Name returns the light name from the source asset.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Node returns the scene node the light is attached to, or nil.
	//
	// Returns:
	//   - *scene.Node: the node
	Node() *scene.Node

	// SetNode attaches the light to a scene node.
	//
	// Parameters:
	//   - n: the node supplying the world transform
	SetNode(n *scene.Node)

	// WorldMatrix returns the light's world transform.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the position used when the light has no node.
	//
	// Parameters:
	//   - p: the position
	SetPosition(p mgl32.Vec3)

	// Direction returns the normalized world-space direction of the light, the node's -Z axis.
	// Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// Color returns the linear color of the light.
	//
	// Returns:
	//   - common.Color: the color
	Color() common.Color

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance for point and spot lights. 0 means unbounded.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// InnerCone returns the cosine of the inner cone half-angle for spot lights.
	//
	// Returns:
	//   - float32: cos(inner half-angle)
	InnerCone() float32

	// OuterCone returns the cosine of the outer cone half-angle for spot lights.
	//
	// Returns:
	//   - float32: cos(outer half-angle)
	OuterCone() float32

	// CastsShadows returns whether this light renders a shadow map each frame.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetCastsShadows sets whether the light renders a shadow map. Enabling it on a point light
	// creates the cube shadow on first use.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)

	// Shadow returns the cube shadow of a shadow-casting point light, nil otherwise.
	//
	// Returns:
	//   - *CubeShadow: the shadow or nil
	Shadow() *CubeShadow
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with white color, unit intensity and any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType: lightType,
		color:     common.Color{R: 1, G: 1, B: 1, A: 1},
		intensity: 1.0,
		innerCone: 1,
		outerCone: math32.Cos(math32.Pi / 4),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.castsShadows {
		l.SetCastsShadows(true)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Name() string {
	return l.name
}

func (l *lightImpl) Node() *scene.Node {
	return l.node
}

func (l *lightImpl) SetNode(n *scene.Node) {
	l.node = n
}

func (l *lightImpl) WorldMatrix() mgl32.Mat4 {
	if l.node != nil {
		return l.node.WorldMatrix()
	}
	return mgl32.Translate3D(l.position[0], l.position[1], l.position[2])
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.WorldMatrix().Col(3).Vec3()
}

func (l *lightImpl) SetPosition(p mgl32.Vec3) {
	l.position = p
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	d := l.WorldMatrix().Col(2).Vec3().Mul(-1)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) InnerCone() float32 {
	return l.innerCone
}

func (l *lightImpl) OuterCone() float32 {
	return l.outerCone
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
	if castsShadows && l.lightType == LightTypePoint && l.shadow == nil {
		l.shadow = NewCubeShadow(l, l.shadowOptions...)
	}
}

func (l *lightImpl) Shadow() *CubeShadow {
	if !l.castsShadows {
		return nil
	}
	return l.shadow
}
