// ABOUTME: Backend response envelope convention
// ABOUTME: Every upstream endpoint wraps its payload in {status, message, data}

package models

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the wrapper every backend response uses. Data stays raw until
// the caller knows the concrete payload type.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// OK reports whether the backend marked the response successful.
func (e *Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// ErrorResponse is the gateway's own JSON error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
