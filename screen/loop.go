// Package screen models the tracker client's screens as explicit state
// objects with defined entry and exit effects, instead of relying on
// implicit framework hooks. All screen state is touched only from the
// goroutine that drains the Loop; network operations run in their own
// goroutines and hand their results back through it.
package screen

import (
	"fmt"
	"time"

	"booktracker/clients"
)

// Loop serializes completion callbacks onto the goroutine that owns the
// screens.
type Loop struct {
	posts chan func()
}

// NewLoop creates an event loop with a buffered callback queue.
func NewLoop() *Loop {
	return &Loop{posts: make(chan func(), 64)}
}

// Post queues fn to run on the owning goroutine.
func (l *Loop) Post(fn func()) {
	l.posts <- fn
}

// Flush runs every callback already queued without waiting for new ones.
func (l *Loop) Flush() {
	for {
		select {
		case fn := <-l.posts:
			fn()
		default:
			return
		}
	}
}

// Wait blocks until a callback arrives or the timeout passes, runs it,
// then drains whatever else queued up behind it. It reports whether any
// callback ran.
func (l *Loop) Wait(timeout time.Duration) bool {
	select {
	case fn := <-l.posts:
		fn()
		l.Flush()
		return true
	case <-time.After(timeout):
		return false
	}
}

// Dispatch runs call in its own goroutine and posts its completion back
// onto the loop. The apply callback therefore always runs on the owning
// goroutine. There is no cancellation: a screen torn down while the call is
// in flight must tolerate a late completion.
func Dispatch[T any](l *Loop, call func() (T, error), apply func(T, error)) {
	go func() {
		v, err := call()
		l.Post(func() { apply(v, err) })
	}()
}

// describeError renders an operation failure for the user: server status
// errors carry the numeric code, anything else is a connectivity problem
// reported with the underlying message.
func describeError(err error) string {
	if code, ok := clients.IsServerError(err); ok {
		return fmt.Sprintf("server error: %d", code)
	}
	return err.Error()
}
