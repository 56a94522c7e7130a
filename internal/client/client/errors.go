package client

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNoSession    = errors.New("not signed in")
)

// RejectedError is an expected refusal by the backend, such as wrong
// credentials or a duplicate email. Message is the backend's wording.
type RejectedError struct {
	Code    codes.Code
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("rejected (%s): %s", e.Code, e.Message)
}
