// gltf_types.go contains the glTF 1.0 and 2.0 data structures for JSON deserialization.
// Both generations decode into the same types: collections use idMap and references use ref,
// so a 1.0 dictionary key and a 2.0 array index are addressed the same way.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

import "encoding/json"

// --- glTF Root Structure ---

// gltfDocument represents the root of a glTF JSON document.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type gltfDocument struct {
	// Asset contains metadata about the glTF asset.
	Asset gltfAsset `json:"asset"`

	// Scene is the id of the default scene.
	Scene *ref `json:"scene,omitempty"`

	// Scenes is the collection of scenes.
	Scenes idMap[gltfScene] `json:"scenes"`

	// Nodes is the collection of nodes (transform hierarchy).
	Nodes idMap[gltfNode] `json:"nodes"`

	// Meshes is the collection of meshes.
	Meshes idMap[gltfMesh] `json:"meshes"`

	// Accessors define how to interpret buffer data.
	Accessors idMap[gltfAccessor] `json:"accessors"`

	// BufferViews define portions of buffers.
	BufferViews idMap[gltfBufferView] `json:"bufferViews"`

	// Buffers are raw binary data containers.
	Buffers idMap[gltfBuffer] `json:"buffers"`

	// Materials is the collection of materials.
	Materials idMap[gltfMaterial] `json:"materials"`

	// Techniques holds the glTF 1.0 render techniques referenced by materials.
	Techniques idMap[gltfTechnique] `json:"techniques"`

	// Textures is the collection of textures.
	Textures idMap[gltfTexture] `json:"textures"`

	// Images is the collection of images.
	Images idMap[gltfImage] `json:"images"`

	// Samplers define texture sampling parameters.
	Samplers idMap[gltfSampler] `json:"samplers"`

	// Skins is the collection of skins (skeletal animation binding).
	Skins idMap[gltfSkin] `json:"skins"`

	// Cameras is the collection of cameras.
	Cameras idMap[gltfCamera] `json:"cameras"`

	// Animations is the collection of animations.
	Animations idMap[gltfAnimation] `json:"animations"`

	// ExtensionsUsed lists extensions used by this asset.
	ExtensionsUsed []string `json:"extensionsUsed,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`

	// Extensions holds document-level extension objects such as HILO_animation_clips.
	Extensions extensions `json:"extensions,omitempty"`
}

// --- Asset Metadata ---

// gltfAsset contains metadata about the glTF asset.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-asset
type gltfAsset struct {
	// Version is the glTF version string, "1.0" or "2.0". Absent in some 1.0 files.
	Version string `json:"version"`

	// MinVersion is the minimum glTF version required.
	MinVersion string `json:"minVersion,omitempty"`

	// Generator is the tool that generated this asset.
	Generator string `json:"generator,omitempty"`

	// Copyright information.
	Copyright string `json:"copyright,omitempty"`
}

// --- Scene Graph ---

// gltfScene is a set of visual objects to render.
type gltfScene struct {
	// Name is an optional name for this scene.
	Name string `json:"name,omitempty"`

	// Nodes are the ids of root nodes in this scene.
	Nodes []ref `json:"nodes,omitempty"`
}

// gltfNode is a node in the node hierarchy.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type gltfNode struct {
	// Name is an optional name for this node.
	Name string `json:"name,omitempty"`

	// Children are ids of child nodes.
	Children []ref `json:"children,omitempty"`

	// Mesh is the id of the mesh in this node (2.0).
	Mesh *ref `json:"mesh,omitempty"`

	// Meshes are the ids of the meshes in this node (1.0).
	Meshes []ref `json:"meshes,omitempty"`

	// Skin is the id of the skin for this node.
	Skin *ref `json:"skin,omitempty"`

	// Camera is the id of the camera attached to this node.
	Camera *ref `json:"camera,omitempty"`

	// JointName registers the node as a skin joint (1.0).
	JointName string `json:"jointName,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`

	// Weights are morph target weights (for blend shapes).
	Weights []float32 `json:"weights,omitempty"`

	Extensions extensions `json:"extensions,omitempty"`
}

// --- Mesh Data ---

// gltfMesh is a set of primitives to be rendered.
type gltfMesh struct {
	// Name is an optional name for this mesh.
	Name string `json:"name,omitempty"`

	// Primitives defines the geometry to render.
	Primitives []gltfPrimitive `json:"primitives"`

	// Weights are default morph target weights.
	Weights []float32 `json:"weights,omitempty"`
}

// gltfPrimitive defines geometry for rendering.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type gltfPrimitive struct {
	// Attributes is a map of attribute semantic to accessor id.
	Attributes map[string]ref `json:"attributes"`

	// Indices is the accessor id for the index buffer.
	Indices *ref `json:"indices,omitempty"`

	// Material is the material id.
	Material *ref `json:"material,omitempty"`

	// Mode is the primitive topology.
	// 0=POINTS, 1=LINES, 2=LINE_LOOP, 3=LINE_STRIP, 4=TRIANGLES (default), 5=TRIANGLE_STRIP, 6=TRIANGLE_FAN
	Mode *int `json:"mode,omitempty"`

	// Targets are morph targets for this primitive.
	Targets []map[string]ref `json:"targets,omitempty"`

	// Extensions hands the primitive to an extension handler (e.g. a mesh compression codec).
	Extensions extensions `json:"extensions,omitempty"`
}

const gltfPrimitiveModeTriangles = 4

// --- Buffer Data ---

// gltfAccessor defines how to interpret buffer data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type gltfAccessor struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// BufferView is the id of the bufferView. Absent means zero-filled data.
	BufferView *ref `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteStride is the element stride of glTF 1.0 accessors. 2.0 stores it on the bufferView.
	ByteStride int `json:"byteStride,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5124=INT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Normalized indicates if integer data should be normalized.
	Normalized bool `json:"normalized,omitempty"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`

	// Max is the maximum value of each component.
	Max []float32 `json:"max,omitempty"`

	// Min is the minimum value of each component.
	Min []float32 `json:"min,omitempty"`

	// Sparse overrides a subset of elements.
	Sparse *gltfSparse `json:"sparse,omitempty"`

	// Extensions carries WEB3D_quantized_attributes.
	Extensions extensions `json:"extensions,omitempty"`
}

// gltfSparse describes sparse storage of accessor elements.
type gltfSparse struct {
	// Count is the number of overridden elements.
	Count int `json:"count"`

	// Indices locates the element indices.
	Indices gltfSparseIndices `json:"indices"`

	// Values locates the replacement values.
	Values gltfSparseValues `json:"values"`
}

// gltfSparseIndices locates the indices of the overridden elements.
type gltfSparseIndices struct {
	BufferView ref `json:"bufferView"`
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is 5121, 5123 or 5125.
	ComponentType int `json:"componentType"`
}

// gltfSparseValues locates the replacement values, tightly packed in the accessor's own type.
type gltfSparseValues struct {
	BufferView ref `json:"bufferView"`
	ByteOffset int `json:"byteOffset,omitempty"`
}

// gltfQuantizedAttributes is the WEB3D_quantized_attributes accessor extension.
type gltfQuantizedAttributes struct {
	// DecodeMatrix is the column-major (n+1)x(n+1) dequantization matrix.
	DecodeMatrix []float32 `json:"decodeMatrix"`

	DecodedMin []float32 `json:"decodedMin,omitempty"`
	DecodedMax []float32 `json:"decodedMax,omitempty"`
}

// gltfBufferView is a view into a buffer.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-bufferview
type gltfBufferView struct {
	// Buffer is the id of the buffer.
	Buffer ref `json:"buffer"`

	// ByteOffset is the offset into the buffer.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ByteLength is the length of the view in bytes.
	ByteLength int `json:"byteLength"`

	// ByteStride is the stride between vertex attribute elements.
	ByteStride int `json:"byteStride,omitempty"`

	// Target is the intended GPU buffer type.
	Target int `json:"target,omitempty"`
}

// gltfBuffer is raw binary data.
type gltfBuffer struct {
	// URI is the buffer location. Absent for the binary chunk of a GLB.
	URI string `json:"uri,omitempty"`

	// ByteLength is the buffer size.
	ByteLength int `json:"byteLength"`
}

// --- Materials ---

// gltfMaterial is a material record of either generation. 2.0 records carry the metallic-roughness fields;
// 1.0 records carry a technique and its values.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-material
type gltfMaterial struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// PBRMetallicRoughness contains PBR metallic-roughness parameters.
	PBRMetallicRoughness *gltfPBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	// NormalTexture is the normal map.
	NormalTexture *gltfTextureInfo `json:"normalTexture,omitempty"`

	// OcclusionTexture is the ambient occlusion map.
	OcclusionTexture *gltfTextureInfo `json:"occlusionTexture,omitempty"`

	// EmissiveTexture is the emissive map.
	EmissiveTexture *gltfTextureInfo `json:"emissiveTexture,omitempty"`

	// TransparencyTexture is an opacity map.
	TransparencyTexture *gltfTextureInfo `json:"transparencyTexture,omitempty"`

	// EmissiveFactor is the emissive color.
	EmissiveFactor []float32 `json:"emissiveFactor,omitempty"`

	// AlphaMode is OPAQUE, MASK, or BLEND.
	AlphaMode string `json:"alphaMode,omitempty"`

	// AlphaCutoff is the alpha threshold for MASK mode.
	AlphaCutoff *float32 `json:"alphaCutoff,omitempty"`

	// DoubleSided enables double-sided rendering.
	DoubleSided bool `json:"doubleSided,omitempty"`

	// Technique is the 1.0 technique id.
	Technique *ref `json:"technique,omitempty"`

	// Values holds the 1.0 technique parameter values: colors as arrays, textures as ids.
	Values map[string]json.RawMessage `json:"values,omitempty"`

	// Extensions carries KHR_materials_common and KHR_materials_pbrSpecularGlossiness.
	Extensions extensions `json:"extensions,omitempty"`
}

// gltfPBRMetallicRoughness contains PBR metallic-roughness material parameters.
type gltfPBRMetallicRoughness struct {
	// BaseColorFactor is the base color (RGBA).
	BaseColorFactor []float32 `json:"baseColorFactor,omitempty"`

	// BaseColorTexture is the base color texture.
	BaseColorTexture *gltfTextureInfo `json:"baseColorTexture,omitempty"`

	// MetallicFactor is the metalness (0-1).
	MetallicFactor *float32 `json:"metallicFactor,omitempty"`

	// RoughnessFactor is the roughness (0-1).
	RoughnessFactor *float32 `json:"roughnessFactor,omitempty"`

	// MetallicRoughnessTexture is the metallic-roughness texture.
	MetallicRoughnessTexture *gltfTextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// gltfPBRSpecularGlossiness is the KHR_materials_pbrSpecularGlossiness extension.
type gltfPBRSpecularGlossiness struct {
	DiffuseFactor             []float32        `json:"diffuseFactor,omitempty"`
	DiffuseTexture            *gltfTextureInfo `json:"diffuseTexture,omitempty"`
	SpecularFactor            []float32        `json:"specularFactor,omitempty"`
	GlossinessFactor          *float32         `json:"glossinessFactor,omitempty"`
	SpecularGlossinessTexture *gltfTextureInfo `json:"specularGlossinessTexture,omitempty"`
}

// gltfMaterialsCommon is the KHR_materials_common extension.
type gltfMaterialsCommon struct {
	// Technique is CONSTANT, LAMBERT, PHONG or BLINN.
	Technique string `json:"technique"`

	// Values holds colors as arrays and textures as ids or texture infos.
	Values map[string]json.RawMessage `json:"values,omitempty"`
}

// gltfTextureInfo references a texture.
type gltfTextureInfo struct {
	// Index is the texture id.
	Index ref `json:"index"`

	// TexCoord is the texture coordinate set.
	TexCoord int `json:"texCoord,omitempty"`

	// Scale is the normal map intensity (normalTexture only).
	Scale *float32 `json:"scale,omitempty"`

	// Strength is the occlusion strength (occlusionTexture only).
	Strength *float32 `json:"strength,omitempty"`
}

// gltfTechnique is a glTF 1.0 render technique. Only its fixed-function states are consumed.
type gltfTechnique struct {
	// States is nil when the technique declares no fixed-function states.
	States *gltfTechniqueStates `json:"states,omitempty"`
}

// gltfTechniqueStates lists the enabled GL capabilities and the state function arguments.
type gltfTechniqueStates struct {
	// Enable lists GL capability codes (3042 BLEND, 2929 DEPTH_TEST, 2884 CULL_FACE).
	Enable []int `json:"enable,omitempty"`

	// Functions maps a GL state function name to its arguments.
	Functions map[string][]float64 `json:"functions,omitempty"`
}

// --- Textures ---

// gltfTexture references an image and sampler.
type gltfTexture struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Sampler is the sampler id.
	Sampler *ref `json:"sampler,omitempty"`

	// Source is the image id.
	Source *ref `json:"source,omitempty"`

	Extensions extensions `json:"extensions,omitempty"`
}

// gltfImage is an image for textures.
type gltfImage struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// URI is the image location or a data URI.
	URI string `json:"uri,omitempty"`

	// MimeType is the image MIME type.
	MimeType string `json:"mimeType,omitempty"`

	// BufferView is the bufferView containing the image.
	BufferView *ref `json:"bufferView,omitempty"`

	// Extensions carries KHR_binary_glTF for embedded 1.0 images.
	Extensions extensions `json:"extensions,omitempty"`
}

// gltfBinaryImage is the KHR_binary_glTF image extension.
type gltfBinaryImage struct {
	BufferView ref    `json:"bufferView"`
	MimeType   string `json:"mimeType"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
}

// gltfSampler defines texture sampling parameters.
type gltfSampler struct {
	// MagFilter is the magnification filter.
	MagFilter *int `json:"magFilter,omitempty"`

	// MinFilter is the minification filter.
	MinFilter *int `json:"minFilter,omitempty"`

	// WrapS is the S (U) wrapping mode.
	WrapS *int `json:"wrapS,omitempty"`

	// WrapT is the T (V) wrapping mode.
	WrapT *int `json:"wrapT,omitempty"`
}

// --- Skeletal Animation ---

// gltfSkin defines joints and inverse bind matrices for skinning.
type gltfSkin struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// InverseBindMatrices is the accessor id for inverse bind matrices.
	InverseBindMatrices *ref `json:"inverseBindMatrices,omitempty"`

	// BindShapeMatrix is the 1.0 matrix applied to the mesh before skinning.
	BindShapeMatrix *[16]float32 `json:"bindShapeMatrix,omitempty"`

	// JointNames are the 1.0 joint names.
	JointNames []string `json:"jointNames,omitempty"`

	// Joints are the 2.0 joint node ids.
	Joints []ref `json:"joints,omitempty"`

	// Skeleton is the id of the skeleton root node.
	Skeleton *ref `json:"skeleton,omitempty"`
}

// --- Cameras ---

// gltfCamera is a camera projection.
type gltfCamera struct {
	Name string `json:"name,omitempty"`

	// Type is "perspective" or "orthographic".
	Type string `json:"type"`

	Perspective  *gltfPerspective  `json:"perspective,omitempty"`
	Orthographic *gltfOrthographic `json:"orthographic,omitempty"`
}

// gltfPerspective is a perspective projection. Yfov is in radians.
type gltfPerspective struct {
	AspectRatio *float32 `json:"aspectRatio,omitempty"`
	Yfov        float32  `json:"yfov"`
	Zfar        *float32 `json:"zfar,omitempty"`
	Znear       *float32 `json:"znear,omitempty"`
}

// gltfOrthographic is an orthographic projection.
type gltfOrthographic struct {
	Xmag  float32 `json:"xmag"`
	Ymag  float32 `json:"ymag"`
	Zfar  float32 `json:"zfar"`
	Znear float32 `json:"znear"`
}

// --- Animations ---

// gltfAnimation is a keyframe animation.
type gltfAnimation struct {
	// Name is an optional name.
	Name string `json:"name,omitempty"`

	// Channels connect samplers to node properties.
	Channels []gltfAnimationChannel `json:"channels"`

	// Samplers define keyframe data and interpolation.
	Samplers idMap[gltfAnimationSampler] `json:"samplers"`

	// Parameters maps 1.0 sampler parameter names to accessor ids.
	Parameters map[string]ref `json:"parameters,omitempty"`
}

// gltfAnimationChannel targets a node property.
type gltfAnimationChannel struct {
	// Sampler is the sampler id within the animation.
	Sampler ref `json:"sampler"`

	// Target specifies what is animated.
	Target gltfAnimationTarget `json:"target"`
}

// gltfAnimationTarget specifies the animated property.
type gltfAnimationTarget struct {
	// Node is the 2.0 target node id.
	Node *ref `json:"node,omitempty"`

	// ID is the 1.0 target node id.
	ID string `json:"id,omitempty"`

	// Path is the property: "translation", "rotation", "scale", or "weights".
	Path string `json:"path"`
}

// gltfAnimationSampler defines keyframe interpolation. Input and Output are accessor ids in 2.0
// and parameter names in 1.0.
type gltfAnimationSampler struct {
	Input ref `json:"input"`

	// Interpolation is "LINEAR", "STEP", or "CUBICSPLINE".
	Interpolation string `json:"interpolation,omitempty"`

	Output ref `json:"output"`
}

// gltfAnimationClips is the HILO_animation_clips document extension: clip name to [start, end] seconds.
type gltfAnimationClips map[string][2]float32

// --- Extension names ---

const (
	extQuantizedAttributes = "WEB3D_quantized_attributes"
	extMaterialsCommon     = "KHR_materials_common"
	extSpecularGlossiness  = "KHR_materials_pbrSpecularGlossiness"
	extBinaryGLTF          = "KHR_binary_glTF"
	extAnimationClips      = "HILO_animation_clips"
	extLightsPunctual      = "KHR_lights_punctual"
)
