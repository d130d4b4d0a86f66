package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestProfilerPhases(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := newWithClock(logger, "fox.glb", fakeClock(10*time.Millisecond))
	p.Mark("decode")
	p.Mark("resources")

	assert.Equal(t, []Phase{
		{Name: "decode", Duration: 10 * time.Millisecond},
		{Name: "resources", Duration: 10 * time.Millisecond},
	}, p.Phases())

	assert.Equal(t, 30*time.Millisecond, p.Done())
	assert.Contains(t, buf.String(), "load profile")
	assert.Contains(t, buf.String(), "subject=fox.glb")
	assert.Contains(t, buf.String(), "resources=10ms")
}

func TestProfilerWithoutLogger(t *testing.T) {
	p := newWithClock(nil, "a.gltf", fakeClock(time.Second))
	assert.Equal(t, time.Second, p.Done())
}
