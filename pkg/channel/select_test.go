package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrew/gocrew/pkg/cancel"
)

func TestSelectReceive_Value(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	u.Send(42)

	v, err := SelectReceive[int](u, src.Token(), 0)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestSelectReceive_UnblocksOnSend(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	got := make(chan int, 1)
	go func() {
		if v, err := SelectReceive[int](u, src.Token(), 0); err == nil {
			got <- v
		}
	}()

	time.Sleep(10 * time.Millisecond)
	u.Send(7)

	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(5 * time.Second):
		t.Fatal("select receive did not observe send")
	}
}

func TestSelectReceive_UnblocksOnCancel(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	errCh := make(chan error, 1)
	go func() {
		_, err := SelectReceive[int](u, src.Token(), 0)
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	src.Cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrCancelled)
	case <-time.After(5 * time.Second):
		t.Fatal("select receive did not observe cancellation")
	}
}

func TestSelectReceive_CancellationWinsTie(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	// Both a value and a cancellation are observable before the race
	// starts; cancellation must win and leave the value behind.
	u.Send(99)
	src.Cancel()

	_, err := SelectReceive[int](u, src.Token(), 0)
	require.ErrorIs(t, err, ErrCancelled)

	v, ok := u.TryReceive()
	require.True(t, ok, "value must remain retrievable after cancelled receive")
	assert.Equal(t, 99, v)
}

func TestSelectReceive_Timeout(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	_, err := SelectReceive[int](u, src.Token(), 20*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrCancelled)
}

func TestSelectReceive_SpuriousReadyReentersRace(t *testing.T) {
	u := NewUnbounded[int]()
	src := cancel.NewSource()

	// A competing consumer steals the value between the readiness wake
	// and the extraction attempt. Simulated here by raising the
	// readiness signal with nothing queued: the racer must keep
	// waiting, then succeed on a real send.
	select {
	case u.notify <- struct{}{}:
	default:
	}

	got := make(chan int, 1)
	go func() {
		if v, err := SelectReceive[int](u, src.Token(), 0); err == nil {
			got <- v
		}
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-got:
		t.Fatal("reported success without a value")
	default:
	}

	u.Send(5)
	select {
	case v := <-got:
		assert.Equal(t, 5, v)
	case <-time.After(5 * time.Second):
		t.Fatal("select receive never recovered from spurious wake")
	}
}
