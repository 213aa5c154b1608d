package avatargen

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrGenerationFailed wraps every failure of a single generation call:
	// transport errors, non-success statuses and malformed responses.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrMissingParts is returned when a response has no candidate content parts.
	ErrMissingParts = errors.New("response missing content parts")

	// ErrNoImageData is returned when a response has parts but none carry image data.
	ErrNoImageData = errors.New("no image data in response")

	// ErrNoWorkItems is returned when an invocation resolves to nothing to process.
	ErrNoWorkItems = errors.New("no work items to process")

	// ErrStorageNotConfigured is returned when storage operations are attempted
	// without a configured storage backend.
	ErrStorageNotConfigured = errors.New("storage not configured")
)

// RateLimitError is returned when a rate limit is hit.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// StatusError reports a non-success HTTP response from a generation endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// generationFailed wraps err so that it matches ErrGenerationFailed while
// keeping the underlying cause reachable through errors.Is / errors.As.
func generationFailed(err error) error {
	if err == nil || errors.Is(err, ErrGenerationFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
}
