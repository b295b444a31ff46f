package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrew/gocrew/pkg/cancel"
)

func TestSupervise_AutoStart(t *testing.T) {
	started := make(chan struct{})
	a := New("auto", func(tok cancel.Token) {
		close(started)
		<-tok.Done()
	})

	s := Supervise(a, WithAutoStart(), WithAutoStopAndWait())

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("auto-start did not run the body")
	}

	require.NoError(t, s.Close())
	assert.Equal(t, StatusWaited, a.Status())
}

func TestSupervise_TeardownOrderStopBeforeWait(t *testing.T) {
	// Wait registered before Stop: Close must run Stop first (reverse
	// registration order) or the wait would block forever on a body
	// that never observes cancellation.
	a := New("ordered", func(tok cancel.Token) {
		<-tok.Done()
	})

	s := Supervise(a,
		WithAutoStart(),
		WithAutoWait(),
		WithAutoStop(),
	)

	done := make(chan struct{})
	go func() {
		s.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close deadlocked: stop did not fire before wait")
	}
}

func TestSupervise_CloseIsIdempotent(t *testing.T) {
	var stops int
	a := New("closed", func(tok cancel.Token) {})

	s := Supervise(a,
		WithAutoStart(),
		WithTeardown(func(l Lifecycle) {
			stops++
			l.StopAndWait()
		}),
	)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.Equal(t, 1, stops)
}

func TestSupervise_CustomTeardownHooks(t *testing.T) {
	a := New("hooked", func(tok cancel.Token) {})

	var order []string
	s := Supervise(a,
		WithTeardown(func(Lifecycle) { order = append(order, "first") }),
		WithTeardown(func(Lifecycle) { order = append(order, "second") }),
		WithAutoStopAndWait(),
	)

	a.Start()
	s.Close()

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Equal(t, StatusWaited, a.Status())
}

func TestSupervise_ManualVariant(t *testing.T) {
	a := New("manual", func(tok cancel.Token) {})

	s := Supervise(a)

	require.Equal(t, StatusCreated, a.Status())
	require.NoError(t, s.Close())
	require.Equal(t, StatusCreated, a.Status())

	s.Target().Start()
	s.Target().StopAndWait()
	assert.Equal(t, StatusWaited, a.Status())
}
