package indicator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDriver captures on/off transitions.
type recordingDriver struct {
	mu          sync.Mutex
	transitions []bool
}

func (d *recordingDriver) Set(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transitions = append(d.transitions, on)
}

func (d *recordingDriver) Transitions() []bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]bool(nil), d.transitions...)
}

func TestSignalLifecycle(t *testing.T) {
	t.Parallel()
	base := time.Unix(1000, 0)
	driver := &recordingDriver{}
	sig := New(driver, 100*time.Millisecond, WithClock(func() time.Time { return base }))

	assert.False(t, sig.IsActive())

	sig.Trigger()
	assert.True(t, sig.IsActive())

	// Still active anywhere inside the window.
	sig.Tick(base.Add(50 * time.Millisecond))
	assert.True(t, sig.IsActive())
	sig.Tick(base.Add(99 * time.Millisecond))
	assert.True(t, sig.IsActive())

	// Inactive at the deadline.
	sig.Tick(base.Add(100 * time.Millisecond))
	assert.False(t, sig.IsActive())

	assert.Equal(t, []bool{true, false}, driver.Transitions())
}

func TestSignalRestartSemantics(t *testing.T) {
	t.Parallel()
	now := time.Unix(1000, 0)
	driver := &recordingDriver{}
	sig := New(driver, 100*time.Millisecond, WithClock(func() time.Time { return now }))

	sig.Trigger()
	now = now.Add(80 * time.Millisecond)
	sig.Trigger() // restarts the window

	base := time.Unix(1000, 0)
	sig.Tick(base.Add(150 * time.Millisecond))
	assert.True(t, sig.IsActive(), "second trigger extends the window")

	sig.Tick(base.Add(180 * time.Millisecond))
	assert.False(t, sig.IsActive())

	// The driver only sees one on and one off despite two triggers.
	assert.Equal(t, []bool{true, false}, driver.Transitions())
}

func TestSignalTickWhileInactive(t *testing.T) {
	t.Parallel()
	driver := &recordingDriver{}
	sig := New(driver, 100*time.Millisecond)

	sig.Tick(time.Now().Add(time.Hour))
	assert.False(t, sig.IsActive())
	assert.Empty(t, driver.Transitions())
}

func TestSignalDefaults(t *testing.T) {
	t.Parallel()
	sig := New(nil, 0)
	require.NotNil(t, sig)
	assert.Equal(t, DefaultFlashDuration, sig.duration)

	// NopDriver path: triggering with no hardware attached is fine.
	sig.Trigger()
	assert.True(t, sig.IsActive())
}

func TestSignalRunClearsOnCancel(t *testing.T) {
	t.Parallel()
	driver := &recordingDriver{}
	sig := New(driver, time.Hour)
	sig.Trigger()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sig.Run(ctx, time.Millisecond) }()

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, sig.IsActive())
	assert.Equal(t, []bool{true, false}, driver.Transitions())
}

func TestSignalRunExpires(t *testing.T) {
	t.Parallel()
	driver := &recordingDriver{}
	sig := New(driver, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sig.Run(ctx, time.Millisecond)

	sig.Trigger()
	require.True(t, sig.IsActive())

	assert.Eventually(t, func() bool { return !sig.IsActive() },
		time.Second, time.Millisecond)
}
