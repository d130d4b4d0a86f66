package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/common"
	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/material"
)

// MaterialFactory replaces the built-in material construction for every material of an asset.
//
// Parameters:
//   - name: the material name, or its id when unnamed
//   - record: the raw material record
//   - doc: the complete glTF document
//
// Returns:
//   - material.Material: the material
//   - error: an error aborts the load
type MaterialFactory func(name string, record json.RawMessage, doc json.RawMessage) (material.Material, error)

// classic material technique names mapped to light types.
var techniqueLightTypes = map[string]material.LightType{
	"CONSTANT": material.LightTypeNone,
	"PHONG":    material.LightTypePhong,
	"BLINN":    material.LightTypeBlinn,
	"LAMBERT":  material.LightTypeLambert,
}

// parseMaterials builds every material of the document. 2.0 records without KHR_materials_common yield
// PBR materials, all others classic materials. 1.0 techniques then override the render state.
func (p *gltfParser) parseMaterials(ctx context.Context) error {
	var records struct {
		Materials idMap[json.RawMessage] `json:"materials"`
	}
	if p.l.materialFactory != nil {
		if err := json.Unmarshal(p.raw, &records); err != nil {
			return fmt.Errorf("failed to read material records: %w", err)
		}
	}

	for _, id := range p.doc.Materials.Keys() {
		md, _ := p.doc.Materials.Get(id)
		name := md.Name
		if name == "" {
			name = id
		}

		var (
			m   material.Material
			err error
		)
		if p.l.materialFactory != nil {
			rec, _ := records.Materials.Get(id)
			var raw json.RawMessage
			if rec != nil {
				raw = *rec
			}
			if m, err = p.l.materialFactory(name, raw, p.raw); err != nil {
				return fmt.Errorf("material %s: %w", id, err)
			}
		} else {
			var kmc gltfMaterialsCommon
			hasKMC, err := md.Extensions.decode(extMaterialsCommon, &kmc)
			if err != nil {
				return fmt.Errorf("material %s: %w", id, err)
			}
			if p.isGLTF2 && !hasKMC {
				m, err = p.createPBRMaterial(name, md)
			} else {
				m, err = p.createClassicMaterial(name, md, hasKMC, &kmc)
			}
			if err != nil {
				return fmt.Errorf("material %s: %w", id, err)
			}

			if techID, ok := refOf(md.Technique); ok {
				if tech, ok := p.doc.Techniques.Get(techID); ok {
					applyTechnique(m.State(), tech)
				}
			}
		}

		for _, extName := range sortedSemantics(md.Extensions) {
			ext := md.Extensions[extName]
			h, ok := p.extensionHandler(extName)
			if !ok {
				continue
			}
			if mp, ok := h.(MaterialParser); ok {
				if m, err = mp.ParseMaterial(ctx, ext, m, p.pc); err != nil {
					return fmt.Errorf("material %s: extension %s: %w", id, extName, err)
				}
			}
		}

		p.materials[id] = m
	}
	return nil
}

// createPBRMaterial maps a metallic-roughness record, or its KHR_materials_pbrSpecularGlossiness
// extension when present, onto a PBRMaterial.
func (p *gltfParser) createPBRMaterial(name string, md *gltfMaterial) (*material.PBRMaterial, error) {
	m := material.NewPBRMaterial(material.WithName(name))
	st := m.State()

	switch md.AlphaMode {
	case "BLEND":
		st.SetTransparent(true)
	case "MASK":
		st.AlphaCutoff = 0.5
		if md.AlphaCutoff != nil {
			st.AlphaCutoff = *md.AlphaCutoff
		}
	default:
		st.IgnoreTransparent = true
	}

	if md.DoubleSided {
		st.SetSide(material.SideFrontAndBack)
	} else {
		st.SetSide(material.SideFront)
	}

	st.NormalMap = p.textureInfo(md.NormalTexture)
	m.OcclusionMap = p.textureInfo(md.OcclusionTexture)
	m.TransparencyMap = p.textureInfo(md.TransparencyTexture)
	if len(md.EmissiveFactor) > 0 {
		m.Emission = material.FromColor(common.NewColor(md.EmissiveFactor))
	}
	if t := p.textureInfo(md.EmissiveTexture); t != nil {
		m.Emission = material.FromTexture(t)
	}

	var sg gltfPBRSpecularGlossiness
	hasSG, err := md.Extensions.decode(extSpecularGlossiness, &sg)
	if err != nil {
		return nil, err
	}

	if hasSG {
		if len(sg.DiffuseFactor) > 0 {
			m.BaseColor = common.NewColor(sg.DiffuseFactor)
		}
		m.BaseColorMap = p.textureInfo(sg.DiffuseTexture)
		if len(sg.SpecularFactor) > 0 {
			spec := common.NewColor(sg.SpecularFactor)
			spec.A = 1
			m.Specular = spec
		}
		if sg.GlossinessFactor != nil {
			m.Glossiness = *sg.GlossinessFactor
		}
		m.SpecularGlossinessMap = p.textureInfo(sg.SpecularGlossinessTexture)
		m.IsSpecularGlossiness = true
		return m, nil
	}

	if pbr := md.PBRMetallicRoughness; pbr != nil {
		if len(pbr.BaseColorFactor) > 0 {
			m.BaseColor = common.NewColor(pbr.BaseColorFactor)
		}
		m.BaseColorMap = p.textureInfo(pbr.BaseColorTexture)
		m.MetallicRoughnessMap = p.textureInfo(pbr.MetallicRoughnessTexture)
		if occ, mr := md.OcclusionTexture, pbr.MetallicRoughnessTexture; occ != nil && mr != nil && occ.Index == mr.Index {
			m.OcclusionInMetallicRoughnessMap = true
			m.OcclusionMap = nil
		}
		if pbr.RoughnessFactor != nil {
			m.Roughness = *pbr.RoughnessFactor
		}
		if pbr.MetallicFactor != nil {
			m.Metallic = *pbr.MetallicFactor
		}
	}
	return m, nil
}

// createClassicMaterial maps 1.0 technique values, or KHR_materials_common values, onto a BasicMaterial.
func (p *gltfParser) createClassicMaterial(name string, md *gltfMaterial, hasKMC bool, kmc *gltfMaterialsCommon) (*material.BasicMaterial, error) {
	m := material.NewBasicMaterial(material.WithName(name))
	st := m.State()

	values := md.Values
	if hasKMC {
		values = kmc.Values
		if lt, ok := techniqueLightTypes[kmc.Technique]; ok {
			st.SetLightType(lt)
		}
	}

	if v, ok := p.colorOrTexture(values["diffuse"]); ok {
		m.Diffuse = v
	}
	if v, ok := p.colorOrTexture(values["specular"]); ok {
		m.Specular = v
	}
	if v, ok := p.colorOrTexture(values["emission"]); ok {
		m.Emission = v
	}
	if v, ok := p.colorOrTexture(values["ambient"]); ok {
		m.Ambient = v
	}
	if info, ok := textureInfoFromValue(values["normalMap"]); ok {
		st.NormalMap = p.textureInfo(info)
	}

	if raw, ok := values["transparency"]; ok {
		if info, ok := textureInfoFromValue(raw); ok {
			m.TransparencyMap = p.textureInfo(info)
			st.SetTransparent(true)
		} else {
			var n float32
			if err := json.Unmarshal(raw, &n); err != nil {
				return nil, fmt.Errorf("invalid transparency: %w", err)
			}
			m.Transparency = n
			if n < 1 {
				st.SetTransparent(true)
			}
		}
	}

	if raw, ok := values["transparent"]; ok {
		var transparent bool
		if err := json.Unmarshal(raw, &transparent); err == nil {
			st.SetTransparent(transparent)
		}
	}

	if raw, ok := values["shininess"]; ok {
		var shininess float32
		if err := json.Unmarshal(raw, &shininess); err != nil {
			return nil, fmt.Errorf("invalid shininess: %w", err)
		}
		m.Shininess = shininess
	}
	return m, nil
}

// colorOrTexture reads a classic material channel: an array is a color, a string or {index} a texture.
func (p *gltfParser) colorOrTexture(raw json.RawMessage) (material.ColorOrTexture, bool) {
	if len(raw) == 0 {
		return material.ColorOrTexture{}, false
	}
	if raw[0] == '[' {
		var c []float32
		if err := json.Unmarshal(raw, &c); err != nil {
			return material.ColorOrTexture{}, false
		}
		return material.FromColor(common.NewColor(c)), true
	}
	if info, ok := textureInfoFromValue(raw); ok {
		if t := p.textureInfo(info); t != nil {
			return material.FromTexture(t), true
		}
	}
	return material.ColorOrTexture{}, false
}
