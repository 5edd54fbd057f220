package async

import "errors"

var (
	// ErrRetryLimitExceeded is returned by [RetryWithDelay] and
	// [RetryWithBackoff] when every attempt has failed. The underlying
	// operation errors are deliberately discarded; callers needing the last
	// attempt's error should use [Retry] or [RetryStrategy] instead.
	ErrRetryLimitExceeded = errors.New("async: retry limit exceeded")

	// ErrTimeout is returned by [Timeout] when the timer settles before the
	// operation does.
	ErrTimeout = errors.New("async: operation timed out")
)

// IsTimeout reports whether err was raised by [Timeout].
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// PanicError is the error produced when a panic is recovered by [Recover]
// or by an [Observer]-instrumented operation. The panic value can be
// retrieved from the error directly.
type PanicError struct {
	value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return "async: panic recovered during operation"
}

// Recovered returns the original panic value.
func (e *PanicError) Recovered() any {
	return e.value
}

// IsPanicError checks whether err was caused by a recovered panic. It
// returns the panic value and a boolean indicating whether a panic occurred.
//
// Example usage:
//
//	_, err := op(ctx)
//	if v, isPanic := async.IsPanicError(err); isPanic {
//		log.Printf("operation panicked with value: %v", v)
//	}
func IsPanicError(err error) (any, bool) {
	var target = &PanicError{}
	ok := errors.As(err, &target)
	if !ok {
		return nil, false
	}
	return target.value, true
}
