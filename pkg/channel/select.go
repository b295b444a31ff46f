package channel

import (
	"time"

	"github.com/gocrew/gocrew/pkg/cancel"
)

// SelectReceive blocks until exactly one of:
//   - a value is extracted from src (returned with a nil error),
//   - cancellation is observed on token (ErrCancelled, no value consumed),
//   - the timeout elapses (ErrTimeout). A timeout <= 0 never fires.
//
// When a pending value and a pending cancellation are observable at the
// same instant, cancellation wins and the value is left in the channel;
// it remains retrievable by a later drain. Shutdown latency is bounded
// at the cost of leaving one item queued.
//
// A readiness wake that loses the value to a competing consumer re-enters
// the race: the call only reports success once a value is actually
// extracted, and only reports cancellation once it is actually observed.
func SelectReceive[T any](src Source[T], token cancel.Token, timeout time.Duration) (T, error) {
	var zero T

	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	for {
		// Cancellation is polled before the channel so that a
		// simultaneously pending value is deterministically left behind.
		if token.IsCancellationRequested() {
			return zero, ErrCancelled
		}
		if v, ok := src.TryReceive(); ok {
			return v, nil
		}

		select {
		case <-token.Done():
			return zero, ErrCancelled
		case <-src.Ready():
			// Possibly stale; the next iteration confirms.
		case <-timeoutCh:
			return zero, ErrTimeout
		}
	}
}
