package pipeline

import "context"

// semaphore bounds in-flight external calls. ASR and generation requests
// can run for minutes; without a bound a burst of uploads would stack an
// arbitrary number of slow HTTP calls.
type semaphore struct {
	slots chan struct{}
}

func newSemaphore(capacity int) *semaphore {
	return &semaphore{slots: make(chan struct{}, capacity)}
}

// acquire blocks until a slot frees or ctx is done.
func (s *semaphore) acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *semaphore) release() {
	<-s.slots
}
