package forwarding

import (
	"errors"
	"fmt"
)

var ErrAllEndpointsExhausted = errors.New("all forwarding endpoints exhausted")

// FetchError is a single failed attempt against one endpoint.
type FetchError struct {
	Endpoint Endpoint
	URL      string
	// Status is the http status for non-2xx responses, 0 otherwise.
	Status  int
	Timeout bool
	Err     error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s via %s: timed out", e.URL, e.Endpoint.Name())
	case e.Status != 0:
		return fmt.Sprintf("fetch %s via %s: status %d", e.URL, e.Endpoint.Name(), e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s via %s: %s", e.URL, e.Endpoint.Name(), e.Err.Error())
	}
	return fmt.Sprintf("fetch %s via %s: failed", e.URL, e.Endpoint.Name())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reason is a short description of the failure that is safe to show to
// users, it carries neither the url nor the endpoint.
func (e *FetchError) Reason() string {
	switch {
	case e.Timeout:
		return "request timed out"
	case e.Status != 0:
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return "unable to fetch content"
}

type exhaustedError struct {
	url      string
	attempts []error
}

func (e *exhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempt(s) for %s", ErrAllEndpointsExhausted.Error(), len(e.attempts), e.url)
}

func (e *exhaustedError) Unwrap() []error {
	return append([]error{ErrAllEndpointsExhausted}, e.attempts...)
}

// Reason describes a failure from this package without leaking where the
// request was sent.
func Reason(err error) string {
	if errors.Is(err, ErrAllEndpointsExhausted) {
		return "unable to fetch content, check your internet connection or try a different endpoint"
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Reason()
	}
	return "unable to fetch content"
}
