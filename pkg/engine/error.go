package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrTimeout means the engine did not answer before the deadline.
	ErrTimeout = errors.New("engine timeout")

	// ErrUnavailable means the engine could not be reached or returned an
	// unusable reply.
	ErrUnavailable = errors.New("engine unavailable")

	// ErrCanceled means the caller gave up before the engine answered.
	ErrCanceled = errors.New("engine call canceled")
)

// Kind names used in logs and response headers.
const (
	KindTimeout     = "engine_timeout"
	KindUnavailable = "engine_unavailable"
	KindCanceled    = "engine_canceled"
)

// Classify wraps err with ErrTimeout, ErrCanceled or ErrUnavailable. Errors
// that already carry a kind are returned as is. A nil err stays nil.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrUnavailable), errors.Is(err, ErrCanceled):
		return err
	case isTimeout(err):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

// Kind returns the kind name of a classified error, or "" when err is nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrCanceled):
		return KindCanceled
	default:
		return KindUnavailable
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
