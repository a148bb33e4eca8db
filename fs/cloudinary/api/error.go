package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the platform.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("cloudinary: status %d", e.StatusCode)
	}
	return fmt.Sprintf("cloudinary: status %d: %s", e.StatusCode, e.Message)
}

// errorBody is the platform's error envelope.
type errorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// newError builds an Error from a response body, falling back to the raw
// body (or status text) when it is not the JSON envelope.
func newError(status int, body []byte) *Error {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &Error{StatusCode: status, Message: envelope.Error.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{StatusCode: status, Message: msg}
}
