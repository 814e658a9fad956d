package httpclient

import (
	"fmt"
)

// Error represents a general error in the httpclient package.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new general Error.
func NewError(message string) error {
	return &Error{Message: message}
}

// WrapError wraps an existing error with a message.
func WrapError(err error, message string) error {
	return &Error{Message: message, Err: err}
}

// NetworkError represents a network-level failure: the only class that is retried.
type NetworkError struct {
	URL      string
	Message  string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("network error for URL '%s' after %d attempt(s): %s: %v", e.URL, e.Attempts, e.Message, e.Err)
	}
	return fmt.Sprintf("network error for URL '%s': %s: %v", e.URL, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError.
func NewNetworkError(url, message string, err error) error {
	return &NetworkError{URL: url, Message: message, Err: err}
}

// HTTPError represents an HTTP-level error (non-2xx status code).
type HTTPError struct {
	StatusCode int
	Body       string
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error for URL '%s': status %d, body: %s", e.URL, e.StatusCode, e.Body)
}

// NewHTTPErrorWithURL creates a new HTTPError.
func NewHTTPErrorWithURL(statusCode int, body string, url string) error {
	return &HTTPError{StatusCode: statusCode, Body: body, URL: url}
}

// ContentTooLargeError is returned when a response body is larger than the
// configured cap. Partial pages are never matched.
type ContentTooLargeError struct {
	URL   string
	Limit int
}

func (e *ContentTooLargeError) Error() string {
	return fmt.Sprintf("response body for URL '%s' exceeds %d bytes", e.URL, e.Limit)
}

// NewContentTooLargeError creates a new ContentTooLargeError.
func NewContentTooLargeError(url string, limit int) error {
	return &ContentTooLargeError{URL: url, Limit: limit}
}
