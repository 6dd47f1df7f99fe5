package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName            = errors.New("subject name is required")
	ErrNoFrameAvailable     = errors.New("no frame available")
	ErrMalformedFrame       = errors.New("malformed frame")
	ErrNoActiveSession      = errors.New("no active enrollment session")
	ErrSessionComplete      = errors.New("enrollment session already has every pose")
	ErrRequestInFlight      = errors.New("a request is already in progress")
	ErrEnrollmentInProgress = errors.New("enrollment in progress")
	ErrSubjectCacheMiss     = errors.New("subject cache not found")
)

type FailureCategory string

const (
	FailureIdentification FailureCategory = "identification failed"
	FailureAnalysis       FailureCategory = "analysis failed"
	FailureEnrollment     FailureCategory = "enrollment failed"
	FailureList           FailureCategory = "list failed"
)

// NetworkError collapses every transport or server failure of a recognition call
// into one user-facing category. The cause stays reachable through Unwrap.
type NetworkError struct {
	Category FailureCategory
	Err      error
}

func NewNetworkError(category FailureCategory, err error) *NetworkError {
	return &NetworkError{Category: category, Err: err}
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return string(e.Category)
	}
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyName)
}

func IsCaptureError(err error) bool {
	return errors.Is(err, ErrNoFrameAvailable) || errors.Is(err, ErrMalformedFrame)
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// UserMessage is the short status line shown for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return string(netErr.Category)
	}

	return err.Error()
}
