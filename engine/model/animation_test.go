package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnimationStateValidate(t *testing.T) {
	tests := []struct {
		name    string
		state   AnimationState
		wantErr bool
	}{
		{
			name:  "linear",
			state: AnimationState{Interpolation: InterpolationLinear, Times: []float32{0, 1}, Values: make([]float32, 6), Size: 3},
		},
		{
			name:  "cubic spline",
			state: AnimationState{Interpolation: InterpolationCubicSpline, Times: []float32{0, 1}, Values: make([]float32, 24), Size: 4},
		},
		{
			name:    "short values",
			state:   AnimationState{Interpolation: InterpolationStep, Times: []float32{0, 1}, Values: make([]float32, 3), Size: 3},
			wantErr: true,
		},
		{
			name:    "zero size",
			state:   AnimationState{Times: []float32{0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAnimationQueries(t *testing.T) {
	a := &Animation{
		States: []*AnimationState{
			{NodeID: "0", Property: AnimationPropertyTranslation, Times: []float32{0, 2}},
			{NodeID: "1", Property: AnimationPropertyScale, Times: []float32{0, 3.5}},
			{NodeID: "0", Property: AnimationPropertyQuaternion, Times: []float32{1}},
		},
		Clips: map[string]AnimationClip{
			"walk": {Name: "walk", Start: 0, End: 1},
			"idle": {Name: "idle", Start: 1, End: 3.5},
		},
	}

	assert.Equal(t, float32(3.5), a.Duration())
	assert.Equal(t, []string{"idle", "walk"}, a.ClipNames())
	assert.Len(t, a.StatesForNode("0"), 2)
	assert.Empty(t, a.StatesForNode("7"))
}
