package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrParse marks a response body that could not be decoded.
var ErrParse = errors.New("malformed catalog response")

// TransportError wraps network and timeout failures talking to the API.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("API request error for %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned for any non-200 response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("API request failed with status code %d: %s", e.StatusCode, e.Body)
}
