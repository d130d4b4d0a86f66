package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/oxy-gltf/engine/config"
	"github.com/Carmen-Shannon/oxy-gltf/engine/light"
	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func triangleGLB(t *testing.T) []byte {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: gltf.Attribute{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "tri", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	require.NoError(t, enc.Encode(doc))
	return buf.Bytes()
}

func TestParseGLBTriangle(t *testing.T) {
	res, err := NewLoader().Parse(context.Background(), triangleGLB(t), "")
	require.NoError(t, err)

	require.Len(t, res.Meshes, 1)
	m := res.Meshes[0]
	assert.Equal(t, "mesh-triangle", m.Name)
	assert.Equal(t, 4, m.Geometry.Mode)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, m.Geometry.Vertices.Float32s())
	assert.Equal(t, []uint32{0, 1, 2}, m.Geometry.Indices.Uint32s())
	assert.IsType(t, &material.BasicMaterial{}, m.Material)

	require.Len(t, res.Node.Children(), 1)
	tri := res.Node.Children()[0]
	assert.Equal(t, "tri", tri.Name)
	assert.Same(t, tri, m.Node())
	assert.Nil(t, res.Anim)
	assert.NoError(t, res.Pending())
}

func TestParseSharedOcclusionTexture(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{
		"name": "rock",
		"pbrMetallicRoughness": map[string]any{
			"baseColorTexture":         map[string]any{"index": 1, "texCoord": 1},
			"metallicRoughnessTexture": map[string]any{"index": 0},
			"metallicFactor":           0.25,
		},
		"occlusionTexture": map[string]any{"index": 0},
		"alphaMode":        "MASK",
	}}
	doc["textures"] = []any{
		map[string]any{"source": 0},
		map[string]any{"source": 1, "sampler": 0},
	}
	doc["samplers"] = []any{map[string]any{"magFilter": texture.FilterNearest, "wrapS": texture.WrapClampToEdge}}
	doc["images"] = []any{
		map[string]any{"uri": dataURI(pngSignature)},
		map[string]any{"uri": dataURI(pngSignature)},
	}
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["material"] = 0

	res, err := parseDoc(t, doc)
	require.NoError(t, err)

	require.Len(t, res.Materials, 1)
	pbr, ok := res.Materials[0].(*material.PBRMaterial)
	require.True(t, ok)
	assert.Equal(t, "rock", pbr.Name())
	assert.True(t, pbr.OcclusionInMetallicRoughnessMap)
	assert.Nil(t, pbr.OcclusionMap)
	require.NotNil(t, pbr.MetallicRoughnessMap)
	require.NotNil(t, pbr.BaseColorMap)
	assert.Equal(t, 1, pbr.BaseColorMap.UV)
	assert.Equal(t, texture.FilterNearest, pbr.BaseColorMap.MagFilter)
	assert.Equal(t, texture.WrapClampToEdge, pbr.BaseColorMap.WrapS)
	assert.InDelta(t, 0.25, pbr.Metallic, 1e-6)
	assert.InDelta(t, 0.5, pbr.State().AlphaCutoff, 1e-6)
	assert.Equal(t, pngSignature, pbr.MetallicRoughnessMap.Data)

	assert.Len(t, res.Textures, 2)
	assert.Same(t, pbr, res.Meshes[0].Material.(*material.PBRMaterial))
}

func TestParseSpecularGlossinessWins(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{
		"pbrMetallicRoughness": map[string]any{"baseColorFactor": []float32{1, 0, 0, 1}},
		"extensions": map[string]any{
			"KHR_materials_pbrSpecularGlossiness": map[string]any{
				"diffuseFactor":    []float32{0, 1, 0, 1},
				"glossinessFactor": 0.3,
			},
		},
		"doubleSided": true,
	}}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	pbr := res.Materials[0].(*material.PBRMaterial)
	assert.True(t, pbr.IsSpecularGlossiness)
	assert.InDelta(t, 1, pbr.BaseColor.G, 1e-6)
	assert.InDelta(t, 0.3, pbr.Glossiness, 1e-6)
	assert.Equal(t, material.SideFrontAndBack, pbr.State().Side())
}

func TestParseMissingScene(t *testing.T) {
	rec := &logRecorder{}
	doc := triangleDoc()
	delete(doc, "scene")
	delete(doc, "scenes")

	res, err := parseDoc(t, doc, WithLogger(slog.New(rec)))
	require.NoError(t, err)
	assert.NotNil(t, res.Node)
	assert.Empty(t, res.Meshes)
	assert.Contains(t, rec.messages(slog.LevelWarn), "no scene")
}

func TestParseUnknownSemantic(t *testing.T) {
	rec := &logRecorder{}
	doc := triangleDoc()
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["attributes"].(map[string]any)["_CUSTOM"] = 0

	res, err := parseDoc(t, doc, WithLogger(slog.New(rec)))
	require.NoError(t, err)
	assert.Contains(t, rec.messages(slog.LevelWarn), "unknown attribute semantic")
	assert.Equal(t, 3, res.Meshes[0].Geometry.Vertices.Count)
}

func TestParseMeshInstances(t *testing.T) {
	doc := triangleDoc()
	doc["nodes"] = []any{
		map[string]any{"name": "a", "mesh": 0, "translation": []float32{1, 2, 3}},
		map[string]any{"name": "b", "mesh": 0, "scale": []float32{2, 2, 2}},
	}
	doc["scenes"] = []any{map[string]any{"nodes": []int{0, 1}}}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	require.Len(t, res.Meshes, 2)
	a, b := res.Meshes[0], res.Meshes[1]
	assert.NotEqual(t, a.ID, b.ID)
	assert.Same(t, a.Geometry, b.Geometry)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, a.Node().Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, b.Node().Scale)
}

func TestParseMorphTargets(t *testing.T) {
	doc := triangleDoc()
	mesh := doc["meshes"].([]any)[0].(map[string]any)
	mesh["weights"] = []float32{0.5}
	prim := mesh["primitives"].([]any)[0].(map[string]any)
	prim["targets"] = []any{map[string]any{"POSITION": 0}}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	g := res.Meshes[0].Geometry
	require.Len(t, g.Morph[model.SlotVertices], 1)
	assert.Equal(t, []float32{0.5}, g.Weights)
}

type primitiveExtension struct {
	mode  int
	inits atomic.Int32
}

func (e *primitiveExtension) Init(context.Context, *LoadContext, *ParserContext) error {
	e.inits.Add(1)
	return nil
}

func (e *primitiveExtension) ParsePrimitive(ctx context.Context, ext json.RawMessage, pc *ParserContext) (*model.Geometry, error) {
	g := model.NewGeometry()
	g.Mode = e.mode
	data, err := pc.Accessor("0", false)
	if err != nil {
		return nil, err
	}
	g.Vertices = data
	return g, nil
}

func TestExtensionPrecedence(t *testing.T) {
	global := &primitiveExtension{mode: 0}
	local := &primitiveExtension{mode: 1}
	RegisterExtension("EXT_test_primitive", global)
	t.Cleanup(func() { RegisterExtension("EXT_test_primitive", nil) })

	doc := triangleDoc()
	doc["extensionsUsed"] = []string{"EXT_test_primitive"}
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["extensions"] = map[string]any{"EXT_test_primitive": map[string]any{}}

	res, err := parseDoc(t, doc, WithExtension("EXT_test_primitive", local))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Meshes[0].Geometry.Mode)
	assert.Nil(t, res.Meshes[0].Geometry.Indices, "the handler replaces standard decoding")
	assert.Equal(t, int32(1), local.inits.Load())
	assert.Equal(t, int32(0), global.inits.Load())

	res, err = parseDoc(t, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Meshes[0].Geometry.Mode)
	assert.Equal(t, int32(1), global.inits.Load())
}

type failingExtension struct{}

func (failingExtension) Init(context.Context, *LoadContext, *ParserContext) error {
	return errors.New("boom")
}

func TestExtensionInitFailure(t *testing.T) {
	doc := triangleDoc()
	doc["extensionsUsed"] = []string{"EXT_fail"}
	_, err := parseDoc(t, doc, WithExtension("EXT_fail", failingExtension{}))
	assert.ErrorContains(t, err, "failed to initialize extension EXT_fail")
}

func TestParseCameras(t *testing.T) {
	rec := &logRecorder{}
	doc := triangleDoc()
	doc["cameras"] = []any{
		map[string]any{"type": "perspective", "perspective": map[string]any{"yfov": math.Pi / 2, "znear": 0.1}},
		map[string]any{"type": "orthographic", "orthographic": map[string]any{"xmag": 1, "ymag": 1, "znear": 0, "zfar": 1}},
	}
	doc["nodes"].([]any)[0].(map[string]any)["camera"] = 0

	res, err := parseDoc(t, doc, WithLogger(slog.New(rec)))
	require.NoError(t, err)
	require.Len(t, res.Cameras, 1)
	c := res.Cameras[0]
	assert.Equal(t, "0", c.Name())
	assert.InDelta(t, 90, c.Fov(), 1e-3)
	assert.InDelta(t, 1.5, c.Aspect(), 1e-6)
	assert.InDelta(t, 0.1, c.Near(), 1e-6)
	assert.InDelta(t, 100, c.Far(), 1e-6)
	assert.Same(t, c, res.Node.Children()[0].Camera)
	assert.Contains(t, rec.messages(slog.LevelWarn), "unsupported camera type")
}

func TestParseAnimations(t *testing.T) {
	doc := triangleDoc()
	anim := le([]float32{0, 1}, []float32{0, 0, 0, 1, 0, 0.7071068, 0, 0.7071068})
	doc["buffers"] = append(doc["buffers"].([]any), map[string]any{"uri": dataURI(anim), "byteLength": len(anim)})
	doc["bufferViews"] = append(doc["bufferViews"].([]any),
		map[string]any{"buffer": 1, "byteOffset": 0, "byteLength": 8},
		map[string]any{"buffer": 1, "byteOffset": 8, "byteLength": 32},
	)
	doc["accessors"] = append(doc["accessors"].([]any),
		map[string]any{"bufferView": 2, "componentType": 5126, "count": 2, "type": "SCALAR"},
		map[string]any{"bufferView": 3, "componentType": 5126, "count": 2, "type": "VEC4"},
	)
	doc["animations"] = []any{map[string]any{
		"channels": []any{map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "rotation"}}},
		"samplers": []any{map[string]any{"input": 2, "output": 3}},
	}}
	doc["extensions"] = map[string]any{"HILO_animation_clips": map[string]any{"turn": []float32{0, 1}}}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	require.NotNil(t, res.Anim)
	require.Len(t, res.Anim.States, 1)

	st := res.Anim.States[0]
	assert.Equal(t, "0", st.NodeID)
	assert.Equal(t, model.AnimationPropertyQuaternion, st.Property)
	assert.Equal(t, model.InterpolationLinear, st.Interpolation)
	assert.Equal(t, 4, st.Size)
	assert.Equal(t, []float32{0, 1}, st.Times)
	assert.Equal(t, model.AnimationClip{Name: "turn", Start: 0, End: 1}, res.Anim.Clips["turn"])
	assert.Equal(t, "0", res.Node.Children()[0].AnimationID)
}

func TestParseSkin(t *testing.T) {
	doc := triangleDoc()
	ibm := le([]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1})
	doc["buffers"] = append(doc["buffers"].([]any), map[string]any{"uri": dataURI(ibm), "byteLength": len(ibm)})
	doc["bufferViews"] = append(doc["bufferViews"].([]any), map[string]any{"buffer": 1, "byteLength": 64})
	doc["accessors"] = append(doc["accessors"].([]any), map[string]any{"bufferView": 2, "componentType": 5126, "count": 1, "type": "MAT4"})
	doc["skins"] = []any{map[string]any{"joints": []int{1}, "inverseBindMatrices": 2}}
	doc["nodes"] = []any{
		map[string]any{"name": "body", "mesh": 0, "skin": 0, "children": []int{1}},
		map[string]any{"name": "bone"},
	}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	skin := res.Meshes[0].Skin
	require.NotNil(t, skin)
	assert.Equal(t, []string{"1"}, skin.JointNames)
	require.Len(t, skin.Joints, 1)
	assert.Equal(t, "bone", skin.Joints[0].Name)
	assert.Same(t, res.Node, skin.RootNode)
	assert.Equal(t, mgl32.Scale3D(2, 2, 2), skin.InverseBindMatrices[0])
}

// v1Doc is a glTF 1.0 GLB payload with a skinned triangle, a technique material and a bind shape matrix.
// Each edit rewrites the document before it is encoded.
func v1Doc(t *testing.T, edits ...func(doc map[string]any)) []byte {
	body := le(
		[]float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		[]float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 1},
	)
	doc := map[string]any{
		"asset":          map[string]any{"version": "1.0"},
		"extensionsUsed": []string{"KHR_binary_glTF"},
		"scene":          "defaultScene",
		"scenes":         map[string]any{"defaultScene": map[string]any{"nodes": []string{"body", "hip"}}},
		"nodes": map[string]any{
			"body": map[string]any{"meshes": []string{"tri"}, "skin": "skin"},
			"hip":  map[string]any{"jointName": "j_hip"},
		},
		"meshes": map[string]any{
			"tri": map[string]any{"primitives": []any{map[string]any{
				"attributes": map[string]any{"POSITION": "acc_pos"},
				"material":   "mat",
				"mode":       4,
			}}},
		},
		"materials": map[string]any{
			"mat": map[string]any{
				"technique": "tech",
				"values":    map[string]any{"diffuse": []float32{1, 0, 0, 1}, "shininess": 8},
			},
		},
		"techniques": map[string]any{
			"tech": map[string]any{"states": map[string]any{
				"enable": []int{2929, 2884, 3042},
				"functions": map[string]any{
					"cullFace":          []int{1028},
					"depthFunc":         []int{515},
					"frontFace":         []int{2304},
					"blendFuncSeparate": []int{770, 771, 1, 771},
				},
			}},
		},
		"skins": map[string]any{
			"skin": map[string]any{
				"bindShapeMatrix":     []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 0, 0, 1},
				"inverseBindMatrices": "acc_ibm",
				"jointNames":          []string{"j_hip"},
			},
		},
		"buffers": map[string]any{"binary_glTF": map[string]any{"uri": "data:,", "byteLength": len(body)}},
		"bufferViews": map[string]any{
			"bv_pos": map[string]any{"buffer": "binary_glTF", "byteOffset": 0, "byteLength": 36},
			"bv_ibm": map[string]any{"buffer": "binary_glTF", "byteOffset": 36, "byteLength": 64},
		},
		"accessors": map[string]any{
			"acc_pos": map[string]any{"bufferView": "bv_pos", "componentType": 5126, "count": 3, "type": "VEC3"},
			"acc_ibm": map[string]any{"bufferView": "bv_ibm", "componentType": 5126, "count": 1, "type": "MAT4"},
		},
	}
	for _, edit := range edits {
		edit(doc)
	}
	return glbV1(mustJSON(t, doc), body)
}

func TestParseGLTF1Binary(t *testing.T) {
	res, err := NewLoader().Parse(context.Background(), v1Doc(t), "")
	require.NoError(t, err)

	require.Len(t, res.Meshes, 1)
	m := res.Meshes[0]
	assert.Equal(t, "mesh-tri", m.Name)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, m.Geometry.Vertices.Float32s())

	basic, ok := m.Material.(*material.BasicMaterial)
	require.True(t, ok)
	diffuse, isColor := basic.Diffuse.Color()
	require.True(t, isColor)
	assert.InDelta(t, 1, diffuse.R, 1e-6)
	assert.InDelta(t, 8, basic.Shininess, 1e-6)

	st := basic.State()
	assert.True(t, st.DepthTest)
	assert.True(t, st.Blend)
	assert.True(t, st.CullFace())
	assert.Equal(t, wgpu.CullModeFront, st.CullFaceType())
	assert.Equal(t, material.SideBack, st.Side())
	assert.Equal(t, wgpu.CompareFunctionLessEqual, st.DepthFunc)
	assert.Equal(t, wgpu.FrontFaceCW, st.FrontFace)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, st.BlendSrc)
	assert.Equal(t, wgpu.BlendFactorOne, st.BlendSrcAlpha)

	require.NotNil(t, m.Skin)
	require.Len(t, m.Skin.Joints, 1)
	assert.Equal(t, "j_hip", m.Skin.Joints[0].JointName)
	// ibm * bindShape: scale 2 applied after a unit x translation.
	assert.Equal(t, mgl32.Vec4{2, 0, 0, 1}, m.Skin.InverseBindMatrices[0].Col(3))
}

func TestTechniqueStates(t *testing.T) {
	transparentMaterial := func(doc map[string]any) {
		doc["materials"] = map[string]any{
			"mat": map[string]any{"technique": "tech", "values": map[string]any{"transparency": 0.5}},
		}
	}

	tests := []struct {
		name      string
		technique map[string]any
		blend     bool
		depthTest bool
		cullFace  bool
		side      material.Side
	}{
		{
			name:      "no states",
			technique: map[string]any{"parameters": map[string]any{"diffuse": map[string]any{"type": 35666}}},
			blend:     true,
			depthTest: true,
			cullFace:  true,
			side:      material.SideFront,
		},
		{
			name:      "enable without cull face",
			technique: map[string]any{"states": map[string]any{"enable": []int{2929}}},
			blend:     true,
			depthTest: true,
			cullFace:  true,
			side:      material.SideFront,
		},
		{
			name: "cull front without enable",
			technique: map[string]any{"states": map[string]any{
				"functions": map[string]any{"cullFace": []int{1028}},
			}},
			blend:     true,
			depthTest: true,
			cullFace:  true,
			side:      material.SideBack,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := v1Doc(t, transparentMaterial, func(doc map[string]any) {
				doc["techniques"] = map[string]any{"tech": tt.technique}
			})
			res, err := NewLoader().Parse(context.Background(), data, "")
			require.NoError(t, err)

			st := res.Meshes[0].Material.State()
			assert.True(t, st.Transparent())
			assert.Equal(t, tt.blend, st.Blend)
			assert.False(t, st.DepthMask)
			assert.Equal(t, tt.depthTest, st.DepthTest)
			assert.Equal(t, tt.cullFace, st.CullFace())
			assert.Equal(t, tt.side, st.Side())
		})
	}
}

func TestParseTransparencyTexture(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{"transparencyTexture": map[string]any{"index": 0}}}
	doc["textures"] = []any{map[string]any{"source": 0}}
	doc["images"] = []any{map[string]any{"uri": dataURI(pngSignature)}}
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["material"] = 0

	res, err := parseDoc(t, doc)
	require.NoError(t, err)

	pbr, ok := res.Meshes[0].Material.(*material.PBRMaterial)
	require.True(t, ok)
	require.NotNil(t, pbr.TransparencyMap)
	assert.Same(t, pbr.TransparencyMap, pbr.Textures()["transparency"])
	assert.True(t, pbr.GetRenderOption(nil).Has("TRANSPARENCY_MAP"))
	assert.Len(t, res.Textures, 1)
}

type orderedMaterialExtension struct {
	name  string
	calls *[]string
}

func (e orderedMaterialExtension) Init(context.Context, *LoadContext, *ParserContext) error {
	return nil
}

func (e orderedMaterialExtension) ParseMaterial(_ context.Context, _ json.RawMessage, m material.Material, _ *ParserContext) (material.Material, error) {
	*e.calls = append(*e.calls, e.name)
	m.State().SetName(m.Name() + "+" + e.name)
	return m, nil
}

func TestMaterialExtensionsRunInNameOrder(t *testing.T) {
	names := []string{"EXT_d", "EXT_a", "EXT_c", "EXT_b"}

	doc := triangleDoc()
	doc["extensionsUsed"] = names
	exts := make(map[string]any, len(names))
	for _, name := range names {
		exts[name] = map[string]any{}
	}
	doc["materials"] = []any{map[string]any{"name": "m", "extensions": exts}}
	prim := doc["meshes"].([]any)[0].(map[string]any)["primitives"].([]any)[0].(map[string]any)
	prim["material"] = 0

	for range 8 {
		var calls []string
		opts := make([]LoaderBuilderOption, 0, len(names))
		for _, name := range names {
			opts = append(opts, WithExtension(name, orderedMaterialExtension{name: name, calls: &calls}))
		}

		res, err := parseDoc(t, doc, opts...)
		require.NoError(t, err)
		assert.Equal(t, []string{"EXT_a", "EXT_b", "EXT_c", "EXT_d"}, calls)
		assert.Equal(t, "m+EXT_a+EXT_b+EXT_c+EXT_d", res.Materials[0].Name())
	}
}

func TestParseTextureFailure(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{"pbrMetallicRoughness": map[string]any{"baseColorTexture": map[string]any{"index": 0}}}}
	doc["textures"] = []any{map[string]any{"source": 0}}
	doc["images"] = []any{map[string]any{"uri": "missing.png"}}

	rec := &logRecorder{}
	l := NewLoader(
		WithLogger(slog.New(rec)),
		WithResourceLoader(NewFileResourceLoader(fstest.MapFS{})),
	)
	_, err := l.Parse(context.Background(), mustJSON(t, doc), "")
	assert.ErrorContains(t, err, "failed to load texture 0")
	assert.Contains(t, rec.messages(slog.LevelError), "texture load failed")
}

func TestParseProgressive(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{"pbrMetallicRoughness": map[string]any{"baseColorTexture": map[string]any{"index": 0}}}}
	doc["textures"] = []any{map[string]any{"source": 0}}
	doc["images"] = []any{map[string]any{"uri": "albedo.png"}}

	var hooked []string
	l := NewLoader(
		WithProgressive(true),
		WithResourceLoader(NewFileResourceLoader(fstest.MapFS{"assets/albedo.png": {Data: pngSignature}})),
		WithImageURIHook(func(uri string) string {
			hooked = append(hooked, uri)
			return "assets/" + uri
		}),
	)
	res, err := l.Parse(context.Background(), mustJSON(t, doc), "")
	require.NoError(t, err)
	require.NoError(t, res.Pending())

	assert.Equal(t, []string{"albedo.png"}, hooked)
	require.Len(t, res.Textures, 1)
	assert.Equal(t, "assets/albedo.png", res.Textures[0].URI)
	assert.Equal(t, pngSignature, res.Textures[0].Data)
}

type fakeHandle struct{ released *atomic.Int32 }

func (h fakeHandle) Release() { h.released.Add(1) }

func TestLoadCachesAndClears(t *testing.T) {
	doc := triangleDoc()
	buf := le([]float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, []uint16{0, 1, 2, 0})
	doc["buffers"] = []any{map[string]any{"uri": "tri.bin", "byteLength": len(buf)}}
	doc["materials"] = []any{map[string]any{"pbrMetallicRoughness": map[string]any{"baseColorTexture": map[string]any{"index": 0}}}}
	doc["textures"] = []any{map[string]any{"source": 0}}
	doc["images"] = []any{map[string]any{"uri": "albedo%20map.png"}}

	fsys := fstest.MapFS{
		"models/tri.gltf":        {Data: mustJSON(t, doc)},
		"models/tri.bin":         {Data: buf},
		"models/albedo map.png":  {Data: pngSignature},
		"models/unsupported.fbx": {Data: []byte("x")},
	}

	var released atomic.Int32
	registry := texture.NewRegistry(func(*texture.Texture) (texture.Handle, error) {
		return fakeHandle{released: &released}, nil
	})

	l := NewLoader(
		WithResourceLoader(NewFileResourceLoader(fsys)),
		WithTextureRegistry(registry),
		WithWorkers(2),
	)
	ctx := context.Background()

	first, err := l.Load(ctx, "models/tri.gltf")
	require.NoError(t, err)
	second, err := l.Load(ctx, "models/tri.gltf")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Get("models/tri.gltf"))
	assert.Equal(t, 1, registry.Len())

	_, err = l.Load(ctx, "models/unsupported.fbx")
	assert.ErrorContains(t, err, "unsupported model format")

	l.Clear()
	assert.Nil(t, l.Get("models/tri.gltf"))
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, int32(1), released.Load())
}

func TestParseLightsPunctual(t *testing.T) {
	doc := triangleDoc()
	doc["extensionsUsed"] = []string{"KHR_lights_punctual"}
	doc["extensions"] = map[string]any{"KHR_lights_punctual": map[string]any{"lights": []any{
		map[string]any{"name": "bulb", "type": "point", "color": []float32{1, 0, 0}, "intensity": 2},
	}}}
	doc["nodes"].([]any)[0].(map[string]any)["extensions"] = map[string]any{"KHR_lights_punctual": map[string]any{"light": 0}}

	res, err := parseDoc(t, doc)
	require.NoError(t, err)
	require.Len(t, res.Lights, 1)
	l := res.Lights[0]
	assert.Equal(t, light.LightTypePoint, l.Type())
	assert.Equal(t, "bulb", l.Name())
	assert.InDelta(t, 2, l.Intensity(), 1e-6)
	assert.Same(t, res.Node.Children()[0], l.Node())
}

func TestMaterialFactory(t *testing.T) {
	doc := triangleDoc()
	doc["materials"] = []any{map[string]any{"name": "custom", "extras": map[string]any{"shader": "toon"}}}

	var record map[string]any
	res, err := parseDoc(t, doc, WithMaterialFactory(func(name string, raw json.RawMessage, _ json.RawMessage) (material.Material, error) {
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, err
		}
		return material.NewBasicMaterial(material.WithName("factory-" + name)), nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "factory-custom", res.Materials[0].Name())
	assert.Equal(t, map[string]any{"shader": "toon"}, record["extras"])
}

func TestWithConfig(t *testing.T) {
	l := NewLoader(WithConfig(config.Loader{
		UnquantizeInShader: true,
		Progressive:        true,
		Workers:            8,
		BaseDir:            "assets",
	})).(*loader)
	assert.True(t, l.progressive)
	assert.True(t, l.unquantizeInShader)
	assert.Equal(t, 8, l.workers)
	assert.Equal(t, "assets", l.baseDir)
}
