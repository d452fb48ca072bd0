package cloud

import (
	"errors"
	"fmt"
)

// Kind represents the category of a cloud API failure
type Kind int

const (
	// KindConnectivity indicates the request never produced a response
	KindConnectivity Kind = iota
	// KindAuth indicates the API rejected the bearer token (or its absence)
	KindAuth
	// KindDecode indicates a 200 response whose body could not be decoded
	KindDecode
	// KindStatus indicates any other non-200 status code
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connectivity error"
	case KindAuth:
		return "authorization failed"
	case KindDecode:
		return "decode error"
	case KindStatus:
		return "unexpected status"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// APIError is returned by every Client call that fails
type APIError struct {
	Kind       Kind
	Path       string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s: %s returned %d", e.Kind, e.Path, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func isKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuthError reports whether err is an authorization failure
func IsAuthError(err error) bool {
	return isKind(err, KindAuth)
}

// IsConnectivityError reports whether err is a transport failure
func IsConnectivityError(err error) bool {
	return isKind(err, KindConnectivity)
}

// IsDecodeError reports whether err is a malformed response body
func IsDecodeError(err error) bool {
	return isKind(err, KindDecode)
}
