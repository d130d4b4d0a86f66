package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologyFromMode(t *testing.T) {
	tests := []struct {
		mode     int
		expected wgpu.PrimitiveTopology
		err      bool
	}{
		{0, wgpu.PrimitiveTopologyPointList, false},
		{1, wgpu.PrimitiveTopologyLineList, false},
		{2, 0, true},
		{3, wgpu.PrimitiveTopologyLineStrip, false},
		{4, wgpu.PrimitiveTopologyTriangleList, false},
		{5, wgpu.PrimitiveTopologyTriangleStrip, false},
		{6, 0, true},
	}
	for _, tt := range tests {
		got, err := TopologyFromMode(tt.mode)
		if tt.err {
			assert.Error(t, err, "mode %d", tt.mode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "mode %d", tt.mode)
	}
}

func TestFromMaterialRenderState(t *testing.T) {
	m := material.NewPBRMaterial(material.WithSide(material.SideBack))
	m.SetTransparent(true)

	p, err := FromMaterial(m, nil, 4)
	require.NoError(t, err)

	assert.Equal(t, wgpu.CullModeFront, p.CullMode())
	assert.False(t, p.DepthWriteEnabled())
	require.NotNil(t, p.BlendState())
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, p.BlendState().Color.DstFactor)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.PrimitiveState().Topology)
	assert.Contains(t, p.Defines(), "LIGHT_TYPE_PBR")

	ds := p.DepthStencilState()
	require.NotNil(t, ds)
	assert.Equal(t, wgpu.CompareFunctionLess, ds.DepthCompare)
}

func TestFromMaterialKeyAndCache(t *testing.T) {
	a := material.NewBasicMaterial()
	b := material.NewBasicMaterial()
	c := material.NewBasicMaterial(material.WithSide(material.SideFrontAndBack))

	pa, err := FromMaterial(a, nil, 4)
	require.NoError(t, err)
	pb, err := FromMaterial(b, nil, 4)
	require.NoError(t, err)
	pc, err := FromMaterial(c, nil, 4)
	require.NoError(t, err)

	assert.Equal(t, pa.PipelineKey(), pb.PipelineKey())
	assert.NotEqual(t, pa.PipelineKey(), pc.PipelineKey())

	cache := NewCache()
	got, added := cache.GetOrAdd(pa)
	assert.True(t, added)
	assert.Same(t, pa, got)

	got, added = cache.GetOrAdd(pb)
	assert.False(t, added)
	assert.Same(t, pa, got)

	cache.GetOrAdd(pc)
	assert.Equal(t, 2, cache.Len())
}

func TestDepthStateDisabled(t *testing.T) {
	p := NewPipeline("no-depth", WithDepthFormat(wgpu.TextureFormatUndefined))
	assert.Nil(t, p.DepthStencilState())

	p = NewPipeline("always", WithDepthTestEnabled(false))
	require.NotNil(t, p.DepthStencilState())
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthStencilState().DepthCompare)
}
