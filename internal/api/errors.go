package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// ErrInvalidTypeHint is returned when an upload names an unknown document type.
var ErrInvalidTypeHint = errors.New("invalid document type hint")

// TransportError means no usable HTTP response arrived: DNS, dial, reset, timeout or an open breaker.
type TransportError struct {
	Err       error
	Op        string
	RequestID string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CircuitOpen reports whether the request was refused locally by the circuit breaker.
func (e *TransportError) CircuitOpen() bool {
	return breakerRefused(e.Err)
}

// ServerError is a non-2xx response. Detail comes from a FastAPI {"detail": ...} body when present.
type ServerError struct {
	Op         string
	RequestID  string
	Status     string
	Detail     string
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: server returned %s", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: server returned %s: %s", e.Op, e.Status, e.Detail)
}

// Message is the text to show a user: the server's detail, or a generic status line.
func (e *ServerError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Status != "" {
		return "Server returned " + e.Status
	}
	return fmt.Sprintf("Server returned status %d", e.StatusCode)
}

// NotFound reports a 404.
func (e *ServerError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsTransport reports whether err is, or wraps, a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is, or wraps, a ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// parseDetail extracts FastAPI's error detail, which is a string for HTTPException
// and a list of {loc, msg} objects for request validation failures.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
