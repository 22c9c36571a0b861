package client

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrBodySize caps the amount of response body read when
// building an error for a non-success status code.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrInvalidAddress is the sentinel error wrapped by [AddressError].
	ErrInvalidAddress = errors.New("invalid address")
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
	// ErrNotImplemented is returned by operations the client deliberately
	// does not support.
	ErrNotImplemented = errors.New("not implemented")
	// ErrInvalidConfig is returned when a [RequestConfig] fails validation.
	ErrInvalidConfig = errors.New("invalid request config")
)

// AddressError is returned when an address is missing, malformed, or
// cannot be resolved to an absolute http(s) URL. No request is issued.
type AddressError struct {
	Address string
	Detail  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidAddress, e.Address, e.Detail)
}

func (e *AddressError) Unwrap() error {
	return ErrInvalidAddress
}

// UnexpectedStatusError is returned when success is enforced and the
// response status code is outside the 2xx range.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// checkStatus reads at most maxErrBodySize of the body into the error
// when the status is not a success code.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	statusErr := ErrUnexpectedStatusCode
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Err:        statusErr,
	}
}
