package gateway

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable marks timeouts and exhausted retries. Callers use
// errors.Is to distinguish "the upstream is down" from an upstream reply
// that was an error.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// APIError is a non-2xx reply from the upstream, carrying the HTTP status
// and the response body text. Callers decide whether to propagate or
// degrade to an empty result.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// IsRateLimited reports whether err is an upstream 429 reply.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 429
}
