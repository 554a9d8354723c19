package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TransportError reports a request that never produced a response
// (connection refused, DNS failure, timeout, reset).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError reports a response with a non-2xx status.
type ServerError struct {
	StatusCode int
	Status     string
	// Message is the server-supplied error text, or the status text when the
	// body carried none.
	Message string
	Body    []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func newServerError(code int, status string, body []byte) *ServerError {
	return &ServerError{
		StatusCode: code,
		Status:     status,
		Message:    serverMessage(code, body),
		Body:       body,
	}
}

// serverMessage picks the error text out of {"error": "..."} or
// {"message": "..."} bodies.
func serverMessage(code int, body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			switch v := payload[key].(type) {
			case string:
				if v != "" {
					return v
				}
			case map[string]any:
				if msg, ok := v["message"].(string); ok && msg != "" {
					return msg
				}
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 512 {
		return text
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", code)
}
