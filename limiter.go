package async

// limiter is a channel semaphore bounding how many operations run at once.
// A nil limiter imposes no bound.
type limiter chan struct{}

// acquire returns a channel that is closed once a slot is held. The fast
// path closes it immediately; otherwise a goroutine waits for a slot so
// callers can select against a context.
func (l limiter) acquire() <-chan struct{} {
	acquired := make(chan struct{})
	if l == nil {
		close(acquired)
		return acquired
	}

	select {
	case l <- struct{}{}:
		close(acquired)
		return acquired
	default:
		go func() {
			l <- struct{}{}
			close(acquired)
		}()
		return acquired
	}
}

func (l limiter) release() {
	if l != nil {
		<-l
	}
}
