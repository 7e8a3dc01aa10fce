package api

import (
	"errors"
	"fmt"
)

// ErrUnauthorized marks a 401 from the backend. The base client has already
// cleared the stored token and fired the unauthorized hook by the time a
// caller sees this.
var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx backend response with whatever message payload it
// carried. Network failures are returned as wrapped transport errors, not
// as *Error.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: backend returned %d", e.Status)
}

// errorBody covers the two message envelopes the backend uses.
type errorBody struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Err
}
