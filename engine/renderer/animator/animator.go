// Package animator plays back the flattened keyframe animation of a loaded asset on its scene graph.
package animator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gltf/engine/model"
	"github.com/Carmen-Shannon/oxy-gltf/engine/scene"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownClip is returned when a clip name is not defined by the animation.
var ErrUnknownClip = errors.New("unknown animation clip")

// playback tracks the time and range of one playing clip.
type playback struct {
	clip       string
	start, end float32
	time       float32
	loop       bool
}

// advance moves the playback time forward, wrapping looping clips and clamping the rest.
func (p *playback) advance(dt float32) {
	p.time += dt
	length := p.end - p.start
	if length <= 0 {
		p.time = p.start
		return
	}
	if p.time > p.end {
		if p.loop {
			p.time = p.start + math32.Mod(p.time-p.start, length)
		} else {
			p.time = p.end
		}
	}
	if p.time < p.start {
		p.time = p.start
	}
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu      sync.Mutex
	logger  *slog.Logger
	anim    *model.Animation
	targets map[string]*scene.Node
	speed   float32
	playing bool

	primary playback

	blending      bool
	blendTo       playback
	blendDuration float32
	blendElapsed  float32
}

// Animator drives the node transforms and morph weights of a scene graph from an Animation.
//
// Clips name sub-ranges of the shared timeline. The empty clip name plays the whole timeline.
// Blending samples both the current and the target clip and mixes them until the blend completes,
// at which point the target becomes the current clip.
type Animator interface {
	// Play starts a clip from its beginning and cancels any blend in progress.
	//
	// Parameters:
	//   - clip: the clip name, or "" for the whole timeline
	//   - loop: whether playback wraps at the end of the clip
	//
	// Returns:
	//   - error: ErrUnknownClip if the clip is not defined
	Play(clip string, loop bool) error

	// BlendTo transitions from the current clip to another over the given duration.
	// The target clip loops if the current one does.
	//
	// Parameters:
	//   - clip: the target clip name
	//   - duration: the transition time in seconds; 0 switches immediately
	//
	// Returns:
	//   - error: ErrUnknownClip if the clip is not defined
	BlendTo(clip string, duration float32) error

	// CancelBlend stops an in-progress blend and keeps the current clip.
	CancelBlend()

	// IsBlending reports whether a blend is in progress.
	IsBlending() bool

	// BlendProgress returns the blend progress from 0 to 1, or 0 if not blending.
	BlendProgress() float32

	// Stop pauses playback. Node transforms keep their last sampled values.
	Stop()

	// Playing reports whether Update advances time.
	Playing() bool

	// Clip returns the name of the current clip.
	Clip() string

	// Time returns the playback time of the current clip in seconds.
	Time() float32

	// SetTime seeks the current clip and applies the pose at that time.
	//
	// Parameters:
	//   - t: the time in seconds, clamped to the clip range
	SetTime(t float32)

	// SetSpeed sets the playback speed multiplier (1 is normal speed).
	SetSpeed(speed float32)

	// Update advances playback by dt seconds and writes the sampled pose to the bound nodes.
	//
	// Parameters:
	//   - dt: elapsed time since the last update in seconds
	Update(dt float32)

	// BoundNodes returns the number of animated nodes found in the scene graph.
	BoundNodes() int
}

var _ Animator = &animator{}

// NewAnimator binds an animation to the nodes of a scene graph by their animation ids.
// Timelines targeting nodes that are not in the graph are ignored.
//
// Parameters:
//   - anim: the flattened animation
//   - root: the scene graph root
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the animator, stopped at the start of the whole timeline
func NewAnimator(anim *model.Animation, root *scene.Node, options ...AnimatorBuilderOption) Animator {
	if anim == nil {
		anim = &model.Animation{}
	}
	a := &animator{
		logger:  slog.Default(),
		anim:    anim,
		targets: make(map[string]*scene.Node),
		speed:   1,
	}
	for _, opt := range options {
		opt(a)
	}

	wanted := make(map[string]bool)
	for _, s := range anim.States {
		wanted[s.NodeID] = true
	}
	if root != nil {
		root.Traverse(func(n *scene.Node) bool {
			if wanted[n.AnimationID] {
				if _, dup := a.targets[n.AnimationID]; !dup {
					a.targets[n.AnimationID] = n
				}
			}
			return true
		})
	}
	for id := range wanted {
		if _, ok := a.targets[id]; !ok {
			a.logger.Warn("animation target not in scene", "node", id)
		}
	}

	a.primary = playback{end: anim.Duration()}
	return a
}

// clipRange resolves a clip name to its time range.
func (a *animator) clipRange(clip string) (float32, float32, error) {
	if clip == "" {
		return 0, a.anim.Duration(), nil
	}
	c, ok := a.anim.Clips[clip]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownClip, clip)
	}
	return c.Start, c.End, nil
}

func (a *animator) Play(clip string, loop bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	start, end, err := a.clipRange(clip)
	if err != nil {
		return err
	}
	a.primary = playback{clip: clip, start: start, end: end, time: start, loop: loop}
	a.blending = false
	a.blendElapsed = 0
	a.playing = true
	a.apply()
	return nil
}

func (a *animator) BlendTo(clip string, duration float32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	start, end, err := a.clipRange(clip)
	if err != nil {
		return err
	}
	target := playback{clip: clip, start: start, end: end, time: start, loop: a.primary.loop}
	if duration <= 0 {
		a.primary = target
		a.blending = false
		a.apply()
		return nil
	}
	a.blendTo = target
	a.blendDuration = duration
	a.blendElapsed = 0
	a.blending = true
	a.playing = true
	return nil
}

func (a *animator) CancelBlend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blending = false
	a.blendElapsed = 0
}

func (a *animator) IsBlending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blending
}

func (a *animator) BlendProgress() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.progress()
}

func (a *animator) progress() float32 {
	if !a.blending || a.blendDuration <= 0 {
		return 0
	}
	return min(a.blendElapsed/a.blendDuration, 1)
}

func (a *animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.playing = false
}

func (a *animator) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

func (a *animator) Clip() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.primary.clip
}

func (a *animator) Time() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.primary.time
}

func (a *animator) SetTime(t float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.primary.time = max(a.primary.start, min(t, a.primary.end))
	a.apply()
}

func (a *animator) SetSpeed(speed float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.speed = speed
}

func (a *animator) Update(dt float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return
	}

	step := dt * a.speed
	a.primary.advance(step)
	if a.blending {
		a.blendElapsed += dt
		a.blendTo.advance(step)
		if a.blendElapsed >= a.blendDuration {
			a.primary = a.blendTo
			a.blending = false
			a.blendElapsed = 0
		}
	}
	a.apply()
}

func (a *animator) BoundNodes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.targets)
}

// apply samples every bound timeline and writes the pose. Callers hold mu.
func (a *animator) apply() {
	u := a.progress()
	for _, s := range a.anim.States {
		n, ok := a.targets[s.NodeID]
		if !ok {
			continue
		}
		v := Sample(s, a.primary.time)
		if v == nil {
			continue
		}
		if a.blending {
			v = mix(s.Property, v, Sample(s, a.blendTo.time), u)
		}
		write(n, s.Property, v)
	}
}

func write(n *scene.Node, p model.AnimationProperty, v []float32) {
	switch p {
	case model.AnimationPropertyTranslation:
		if len(v) >= 3 {
			n.Position = mgl32.Vec3{v[0], v[1], v[2]}
		}
	case model.AnimationPropertyQuaternion:
		if len(v) >= 4 {
			n.Quaternion = sliceToQuat(v)
		}
	case model.AnimationPropertyScale:
		if len(v) >= 3 {
			n.Scale = mgl32.Vec3{v[0], v[1], v[2]}
		}
	case model.AnimationPropertyWeights:
		n.Weights = append(n.Weights[:0], v...)
	}
}
