package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by transport errors caused by a 404 response.
// The view model does not treat it differently from other failures.
var ErrNotFound = errors.New("not found")

// TransportError is returned when a remote call does not succeed: the request
// could not be sent, the status was not 2xx, or the body could not be decoded.
type TransportError struct {
	// Op is the logical operation (list, create, update, delete).
	Op     string
	Method string
	URL    string
	// StatusCode is zero when no response was received.
	StatusCode int
	// Body is a trimmed excerpt of the response body, if any.
	Body string
	Err  error
}

func (e *TransportError) Error() string {
	prefix := fmt.Sprintf("%s: %s %s", e.Op, e.Method, e.URL)
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s: status %d: %s", prefix, e.StatusCode, e.Err)
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: response was not ok: %d %s: %s", prefix, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: response was not ok: %d %s", prefix, e.StatusCode, http.StatusText(e.StatusCode))
	default:
		return fmt.Sprintf("%s: %s", prefix, e.Err)
	}
}

// Unwrap returns the underlying error. A 404 without a more specific
// cause unwraps to ErrNotFound.
func (e *TransportError) Unwrap() error {
	if e.Err == nil && e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return e.Err
}

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
