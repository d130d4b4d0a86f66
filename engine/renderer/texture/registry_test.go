package texture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	released int
}

func (h *fakeHandle) Release() { h.released++ }

func countingFactory(created *int) Factory {
	return func(*Texture) (Handle, error) {
		*created++
		return &fakeHandle{}, nil
	}
}

func TestRegistryAcquireCaches(t *testing.T) {
	created := 0
	r := NewRegistry(countingFactory(&created))
	tex := New()

	h1, err := r.Acquire(tex)
	require.NoError(t, err)
	assert.False(t, tex.NeedUpdate)

	h2, err := r.Acquire(tex)
	require.NoError(t, err)
	assert.Same(t, h1, h2)
	assert.Equal(t, 1, created)

	got, ok := r.Get(tex.ID)
	assert.True(t, ok)
	assert.Same(t, h1, got)
}

func TestRegistryAcquireRecreatesStale(t *testing.T) {
	created := 0
	r := NewRegistry(countingFactory(&created))
	tex := New()

	h1, err := r.Acquire(tex)
	require.NoError(t, err)

	tex.NeedUpdate = true
	h2, err := r.Acquire(tex)
	require.NoError(t, err)

	assert.NotSame(t, h1, h2)
	assert.Equal(t, 1, h1.(*fakeHandle).released)
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryReleaseAndReset(t *testing.T) {
	created := 0
	r := NewRegistry(countingFactory(&created))
	a, b := New(), New()

	ha, err := r.Acquire(a)
	require.NoError(t, err)
	hb, err := r.Acquire(b)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	r.Release(a.ID)
	assert.Equal(t, 1, ha.(*fakeHandle).released)
	_, ok := r.Get(a.ID)
	assert.False(t, ok)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1, hb.(*fakeHandle).released)
}

func TestRegistryFactoryErrors(t *testing.T) {
	_, err := NewRegistry(nil).Acquire(New())
	assert.Error(t, err)

	boom := errors.New("device lost")
	tex := New()
	_, err = NewRegistry(func(*Texture) (Handle, error) { return nil, boom }).Acquire(tex)
	assert.ErrorIs(t, err, boom)
	assert.True(t, tex.NeedUpdate)
}
