package api

import (
	"fmt"
	"net/http"
)

// NetworkError means the request never produced a response: DNS failure,
// refused connection, timeout. There is no status code to report.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. It carries the numeric status, the parsed
// error payload and a human-readable message derived from it.
type HTTPError struct {
	Status  int
	Message string
	Payload map[string]any
}

func (e *HTTPError) Error() string {
	return e.Message
}

// errorMessage picks the display message for a failed response, in priority
// order: payload "error" field, payload "message" field, HTTP reason phrase,
// else a generic message with the status code.
func errorMessage(status int, payload map[string]any) string {
	if msg, ok := payload["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", status)
}
