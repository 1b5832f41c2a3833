// Package api holds the result model and the client contract shared by every
// backend API client version (rest, v2, ...). Clients never return remote or
// network failures as Go errors: every call yields exactly one of Success or
// Failure, and callers switch on the concrete type.
package api

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a Failure.
type ErrorKind string

const (
	ErrorKindTimeout         ErrorKind = "timeout"
	ErrorKindConnectionError ErrorKind = "connection_error"
	ErrorKindHttpError       ErrorKind = "http_error"
	ErrorKindDecodeError     ErrorKind = "decode_error"
	ErrorKindUnknown         ErrorKind = "unknown"
)

func (k ErrorKind) String() string {
	return string(k)
}

// ApiError describes why a request failed. StatusCode is zero when no HTTP
// status was received, it is only set for ErrorKindHttpError.
type ApiError struct {
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code,omitempty"`
	Kind       ErrorKind `json:"kind"`
	Details    string    `json:"details,omitempty"`
}

func (e ApiError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// HasStatus reports whether a status code was received.
func (e ApiError) HasStatus() bool {
	return e.StatusCode > 0
}

// Result is either Success or Failure. The set is closed: no other type can
// implement it outside this package.
type Result interface {
	isResult()
}

// Success carries the decoded response body.
type Success struct {
	Data       any `json:"data"`
	StatusCode int `json:"status_code"`
}

func (Success) isResult() {}

// Failure carries the error details of a request that did not succeed.
type Failure struct {
	Error ApiError `json:"error"`
}

func (Failure) isResult() {}

// NewFailure builds a Failure of the given kind.
func NewFailure(kind ErrorKind, statusCode int, message string) Failure {
	return Failure{
		Error: ApiError{
			Message:    message,
			StatusCode: statusCode,
			Kind:       kind,
		},
	}
}

// Match dispatches the result to exactly one of the handlers. A nil result,
// including a nil *Success or *Failure, is an unknown failure.
func Match[T any](result Result, onSuccess func(Success) T, onFailure func(Failure) T) T {
	switch r := result.(type) {
	case Success:
		return onSuccess(r)
	case *Success:
		if r != nil {
			return onSuccess(*r)
		}
	case Failure:
		return onFailure(r)
	case *Failure:
		if r != nil {
			return onFailure(*r)
		}
	}
	return onFailure(NewFailure(ErrorKindUnknown, 0, "empty result"))
}

// AsError returns nil for a Success and the ApiError for a Failure.
func AsError(result Result) error {
	return Match(result,
		func(Success) error { return nil },
		func(f Failure) error { return f.Error },
	)
}

// HTTPStatus maps a failure to the status a host should answer with.
func HTTPStatus(f Failure) int {
	switch f.Error.Kind {
	case ErrorKindHttpError:
		if f.Error.StatusCode > 0 {
			return f.Error.StatusCode
		}
		return http.StatusBadGateway
	case ErrorKindTimeout:
		return http.StatusGatewayTimeout
	case ErrorKindConnectionError, ErrorKindDecodeError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
