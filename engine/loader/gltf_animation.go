package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
)

// parseAnimations flattens every channel of every animation into one Animation. Returns nil when the
// document has no channels.
func (p *gltfParser) parseAnimations() (*model.Animation, error) {
	var states []*model.AnimationState
	for _, id := range p.doc.Animations.Keys() {
		ad, _ := p.doc.Animations.Get(id)
		for i := range ad.Channels {
			st, err := p.animationState(ad, &ad.Channels[i])
			if err != nil {
				return nil, fmt.Errorf("animation %s channel %d: %w", id, i, err)
			}
			states = append(states, st)
		}
	}
	if len(states) == 0 {
		return nil, nil
	}

	anim := &model.Animation{
		States: states,
		Clips:  make(map[string]model.AnimationClip),
	}

	var clips gltfAnimationClips
	ok, err := p.doc.Extensions.decode(extAnimationClips, &clips)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", extAnimationClips, err)
	}
	if ok {
		for name, r := range clips {
			anim.Clips[name] = model.AnimationClip{Name: name, Start: r[0], End: r[1]}
		}
	}
	return anim, nil
}

// animationState reads the keyframes of one channel. 2.0 samplers name accessors directly; 1.0 samplers
// name parameters, and the output parameter is the one named after the target path.
func (p *gltfParser) animationState(ad *gltfAnimation, ch *gltfAnimationChannel) (*model.AnimationState, error) {
	sampler, ok := ad.Samplers.Get(ch.Sampler.String())
	if !ok {
		return nil, fmt.Errorf("sampler %s not found", ch.Sampler)
	}

	nodeID := ch.Target.ID
	input, output := sampler.Input.String(), sampler.Output.String()
	if p.isGLTF2 {
		if id, ok := refOf(ch.Target.Node); ok {
			nodeID = id
		}
	} else {
		input = ad.Parameters[input].String()
		output = ad.Parameters[ch.Target.Path].String()
	}

	times, _, err := p.resolver.Float32s(input)
	if err != nil {
		return nil, fmt.Errorf("input: %w", err)
	}
	values, size, err := p.resolver.Float32s(output)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}

	prop := model.AnimationProperty(ch.Target.Path)
	if ch.Target.Path == "rotation" {
		prop = model.AnimationPropertyQuaternion
	}

	interp := model.Interpolation(sampler.Interpolation)
	if interp == "" {
		interp = model.InterpolationLinear
	}

	st := &model.AnimationState{
		NodeID:        nodeID,
		Property:      prop,
		Interpolation: interp,
		Times:         times,
		Values:        values,
		Size:          size,
	}
	// Weight outputs are scalar accessors holding every target's weight per keyframe.
	if prop == model.AnimationPropertyWeights && len(times) > 0 {
		per := len(times)
		if interp == model.InterpolationCubicSpline {
			per *= 3
		}
		st.Size = len(values) / per
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	return st, nil
}
