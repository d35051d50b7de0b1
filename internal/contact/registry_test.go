package contact

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAcquireReturnsSameController(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&recordingSubmitter{}, 0)
	first := r.Acquire("visitor-a")
	first.UpdateField(FieldName, "Jo")

	assert.Same(t, first, r.Acquire("visitor-a"))
	assert.NotSame(t, first, r.Acquire("visitor-b"))
	assert.Equal(t, 2, r.Len())

	got, ok := r.Lookup("visitor-a")
	require.True(t, ok)
	assert.Equal(t, "Jo", got.Draft().Name)

	_, ok = r.Lookup("visitor-c")
	assert.False(t, ok)
}

func TestRegistryReleaseDiscardsDraftAndCancelsTimer(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&recordingSubmitter{}, 20*time.Millisecond)
	c := r.Acquire("visitor")
	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, r.Release("visitor"))
	assert.False(t, r.Release("visitor"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, Succeeded, c.Status(), "released controller must not reset")

	fresh := r.Acquire("visitor")
	assert.NotSame(t, c, fresh)
	assert.Equal(t, Draft{}, fresh.Draft())
}

func TestRegistryPruneReleasesIdleControllers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(&recordingSubmitter{}, 0)
	r.now = func() time.Time { return now }

	r.Acquire("old")
	now = now.Add(20 * time.Minute)
	r.Acquire("recent")
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, r.Prune(30*time.Minute))
	_, ok := r.Lookup("old")
	assert.False(t, ok)
	_, ok = r.Lookup("recent")
	assert.True(t, ok)
}

func TestRegistryRunClosesControllersOnShutdown(t *testing.T) {
	t.Parallel()

	r := NewRegistry(&recordingSubmitter{}, time.Hour)
	c := r.Acquire("visitor")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 10*time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("registry did not stop after cancellation")
	}
	assert.Equal(t, 0, r.Len())
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}
