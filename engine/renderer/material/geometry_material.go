package material

// VertexType selects the vertex quantity a GeometryMaterial writes to its color target.
type VertexType string

const (
	// VertexTypePosition writes view-space position.
	VertexTypePosition VertexType = "POSITION"
	// VertexTypeNormal writes view-space normals.
	VertexTypeNormal VertexType = "NORMAL"
	// VertexTypeDepth writes packed NDC depth.
	VertexTypeDepth VertexType = "DEPTH"
	// VertexTypeDistance writes packed world-space distance to the camera, used by cube shadow maps.
	VertexTypeDistance VertexType = "DISTANCE"
)

// GeometryMaterial renders a geometric quantity instead of a shaded color. It is used as a forced
// material in depth-like passes.
type GeometryMaterial struct {
	BaseMaterial

	// VertexType is the written quantity.
	VertexType VertexType

	// WriteOriginData writes the raw value instead of packing it into RGBA8.
	WriteOriginData bool
}

var _ Material = &GeometryMaterial{}

// NewGeometryMaterial creates an unlit GeometryMaterial writing the given quantity.
//
// Parameters:
//   - vertexType: the quantity to write
//   - opts: optional render state options
//
// Returns:
//   - *GeometryMaterial: the material
func NewGeometryMaterial(vertexType VertexType, opts ...MaterialBuilderOption) *GeometryMaterial {
	m := &GeometryMaterial{
		BaseMaterial: newBaseMaterial("GeometryMaterial", LightTypeNone),
		VertexType:   vertexType,
	}
	for _, opt := range opts {
		opt(&m.BaseMaterial)
	}
	return m
}

func (m *GeometryMaterial) GetRenderOption(opt RenderOption) RenderOption {
	opt = m.BaseMaterial.GetRenderOption(opt)
	opt.Set("VERTEX_TYPE_" + string(m.VertexType))
	if m.WriteOriginData {
		opt.Set("WRITE_ORIGIN_DATA")
	}
	return opt
}
