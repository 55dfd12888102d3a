package recognition

import (
	"context"
	"sync"
)

// Session is a one-shot completion signal for an asynchronous recognition.
// SDK callbacks capture the Session and call Finish; the caller blocks in
// Wait.
type Session struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewSession returns an unfinished Session.
func NewSession() *Session {
	return &Session{done: make(chan struct{})}
}

// Finish marks the session finished with err. Only the first call has an
// effect.
func (s *Session) Finish(err error) bool {
	first := false
	s.once.Do(func() {
		s.err = err
		close(s.done)
		first = true
	})
	return first
}

// Done returns a channel closed once the session is finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the error passed to the first Finish call.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Wait blocks until the session finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
