package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/renderer/texture"
	pkgerrors "github.com/pkg/errors"
)

// textureSet tracks the textures of one parse. A texture id maps to one base texture plus a clone
// per additional texture coordinate set it is sampled with.
type textureSet struct {
	order    []string
	byID     map[string]*texture.Texture
	assigned map[string]bool
	variants map[string]*texture.Texture
	family   map[string][]*texture.Texture
}

func newTextureSet() *textureSet {
	return &textureSet{
		byID:     make(map[string]*texture.Texture),
		assigned: make(map[string]bool),
		variants: make(map[string]*texture.Texture),
		family:   make(map[string][]*texture.Texture),
	}
}

func (s *textureSet) add(id string, t *texture.Texture) {
	s.order = append(s.order, id)
	s.byID[id] = t
	s.family[id] = []*texture.Texture{t}
}

// all returns every texture and uv variant in document order.
func (s *textureSet) all() []*texture.Texture {
	var out []*texture.Texture
	for _, id := range s.order {
		out = append(out, s.family[id]...)
	}
	return out
}

// imageJob loads the image of one texture, from a URI or from a buffer view.
type imageJob struct {
	textureID string
	uri       string
	viewID    string
}

// textureValueKeys are the classic material values that may hold a texture.
var textureValueKeys = []string{"diffuse", "specular", "emission", "ambient", "transparency", "normalMap"}

// usedTextureNames collects the ids of the textures materials reference. Unreferenced textures are never loaded.
func (p *gltfParser) usedTextureNames() map[string]bool {
	used := make(map[string]bool)
	add := func(info *gltfTextureInfo) {
		if info != nil {
			used[info.Index.String()] = true
		}
	}

	for _, id := range p.doc.Materials.Keys() {
		md, _ := p.doc.Materials.Get(id)

		values := md.Values
		var kmc gltfMaterialsCommon
		hasKMC, _ := md.Extensions.decode(extMaterialsCommon, &kmc)
		if hasKMC {
			values = kmc.Values
		}

		if p.isGLTF2 && !hasKMC {
			add(md.NormalTexture)
			add(md.OcclusionTexture)
			add(md.EmissiveTexture)
			add(md.TransparencyTexture)

			var sg gltfPBRSpecularGlossiness
			if ok, _ := md.Extensions.decode(extSpecularGlossiness, &sg); ok {
				add(sg.DiffuseTexture)
				add(sg.SpecularGlossinessTexture)
			} else if pbr := md.PBRMetallicRoughness; pbr != nil {
				add(pbr.BaseColorTexture)
				add(pbr.MetallicRoughnessTexture)
			}
			continue
		}

		for _, key := range textureValueKeys {
			if info, ok := textureInfoFromValue(values[key]); ok {
				add(info)
			}
		}
	}
	return used
}

// textureInfoFromValue reads a classic material value that names a texture, either by id or as {index, texCoord}.
func textureInfoFromValue(raw json.RawMessage) (*gltfTextureInfo, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	switch raw[0] {
	case '"':
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, false
		}
		return &gltfTextureInfo{Index: ref(id)}, true
	case '{':
		var info gltfTextureInfo
		if err := json.Unmarshal(raw, &info); err != nil || info.Index == "" {
			return nil, false
		}
		return &info, true
	}
	return nil, false
}

// createTextures builds a texture per used texture record, copies its sampler state, and runs
// TextureParser handlers. Images are not loaded yet; the returned jobs describe where they come from.
func (p *gltfParser) createTextures(ctx context.Context) ([]imageJob, error) {
	used := p.usedTextureNames()

	var jobs []imageJob
	for _, id := range p.doc.Textures.Keys() {
		if !used[id] {
			continue
		}
		td, _ := p.doc.Textures.Get(id)

		tex := texture.New()
		tex.Name = td.Name
		if tex.Name == "" {
			tex.Name = id
		}

		if samplerID, ok := refOf(td.Sampler); ok {
			if s, ok := p.doc.Samplers.Get(samplerID); ok {
				applySampler(tex, s)
			}
		}

		job := imageJob{textureID: id}
		if src, ok := refOf(td.Source); ok {
			img, ok := p.doc.Images.Get(src)
			if !ok {
				return nil, fmt.Errorf("texture %s: image %s not found", id, src)
			}
			var err error
			if job, err = p.imageSource(id, img, tex); err != nil {
				return nil, fmt.Errorf("texture %s: %w", id, err)
			}
		}

		for name, ext := range td.Extensions {
			h, ok := p.extensionHandler(name)
			if !ok {
				continue
			}
			if tp, ok := h.(TextureParser); ok {
				if err := tp.ParseTexture(ctx, ext, tex, p.pc); err != nil {
					return nil, fmt.Errorf("texture %s: extension %s: %w", id, name, err)
				}
			}
		}
		if job.viewID == "" {
			job.uri = tex.URI
		}

		p.textures.add(id, tex)
		if job.uri != "" || job.viewID != "" {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// imageSource locates the bytes of an image: a KHR_binary_glTF buffer view, a 2.0 buffer view,
// or a URI resolved against the base directory and passed through the image URI hook.
func (p *gltfParser) imageSource(textureID string, img *gltfImage, tex *texture.Texture) (imageJob, error) {
	job := imageJob{textureID: textureID}

	var bin gltfBinaryImage
	ok, err := img.Extensions.decode(extBinaryGLTF, &bin)
	if err != nil {
		return job, err
	}
	if ok {
		job.viewID = bin.BufferView.String()
		tex.MimeType = bin.MimeType
		return job, nil
	}

	if view, ok := refOf(img.BufferView); ok && p.isGLTF2 {
		job.viewID = view
		tex.MimeType = img.MimeType
		return job, nil
	}

	uri := relativePath(p.baseDir, img.URI)
	if p.l.imageURIHook != nil {
		uri = p.l.imageURIHook(uri)
	}
	tex.URI = uri
	tex.MimeType = img.MimeType
	if tex.MimeType == "" {
		tex.MimeType = dataURIMimeType(uri)
	}
	return job, nil
}

func applySampler(tex *texture.Texture, s *gltfSampler) {
	if s.MagFilter != nil {
		tex.MagFilter = *s.MagFilter
	}
	if s.MinFilter != nil {
		tex.MinFilter = *s.MinFilter
	}
	if s.WrapS != nil {
		tex.WrapS = *s.WrapS
	}
	if s.WrapT != nil {
		tex.WrapT = *s.WrapT
	}
}

func imageTasks(p *gltfParser, jobs []imageJob) []func(context.Context) error {
	tasks := make([]func(context.Context) error, 0, len(jobs))
	for _, job := range jobs {
		tasks = append(tasks, func(ctx context.Context) error {
			return p.loadImage(ctx, job)
		})
	}
	return tasks
}

// loadImage fetches the bytes of an image and hands them to the texture and its uv variants.
// Failures are logged with their stack and returned.
func (p *gltfParser) loadImage(ctx context.Context, job imageJob) error {
	var (
		data []byte
		err  error
	)
	if job.viewID != "" {
		data, _, err = p.resolver.viewBytes(job.viewID)
	} else {
		data, err = p.l.resources.LoadResource(ctx, job.uri, ResourceKindImage)
	}
	if err != nil {
		err = pkgerrors.WithStack(fmt.Errorf("failed to load texture %s: %w", job.textureID, err))
		p.logger.Error("texture load failed", "texture", job.textureID, "uri", job.uri, "error", fmt.Sprintf("%+v", err))
		return err
	}

	p.texturesMu.Lock()
	family := append([]*texture.Texture(nil), p.textures.family[job.textureID]...)
	for _, t := range family {
		t.Data = data
		t.NeedUpdate = true
		t.MimeType = t.DetectMimeType()
	}
	p.texturesMu.Unlock()

	if p.l.registry != nil {
		for _, t := range family {
			if _, err := p.l.registry.Acquire(t); err != nil {
				err = pkgerrors.WithStack(err)
				p.logger.Error("texture upload failed", "texture", job.textureID, "error", fmt.Sprintf("%+v", err))
				return err
			}
		}
	}
	return nil
}

// texture returns the texture to bind for a texture id sampled with a texture coordinate set.
// The first use assigns the set to the base texture; a later use with a different set gets a clone.
// Variants are cached under "<id>_<texCoord>".
func (p *gltfParser) texture(id string, texCoord int) *texture.Texture {
	p.texturesMu.Lock()
	defer p.texturesMu.Unlock()

	key := fmt.Sprintf("%s_%d", id, texCoord)
	if t, ok := p.textures.variants[key]; ok {
		return t
	}

	base, ok := p.textures.byID[id]
	if !ok {
		p.logger.Warn("texture not found", "texture", id)
		return nil
	}

	t := base
	if p.textures.assigned[id] && base.UV != texCoord {
		clone, err := base.Clone()
		if err != nil {
			p.logger.Warn("failed to clone texture", "texture", id, "error", err)
			return base
		}
		clone.UV = texCoord
		p.textures.family[id] = append(p.textures.family[id], clone)
		t = clone
	} else {
		base.UV = texCoord
		p.textures.assigned[id] = true
	}
	p.textures.variants[key] = t
	return t
}

// textureInfo resolves a texture info record. A nil info yields nil.
func (p *gltfParser) textureInfo(info *gltfTextureInfo) *texture.Texture {
	if info == nil {
		return nil
	}
	return p.texture(info.Index.String(), info.TexCoord)
}

func (p *gltfParser) textureByID(id string) (*texture.Texture, bool) {
	p.texturesMu.Lock()
	defer p.texturesMu.Unlock()
	t, ok := p.textures.byID[id]
	return t, ok
}
