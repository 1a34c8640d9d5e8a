// Package api defines response bodies shared by every HTTP handler.
package api

// ErrorResponse is the body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
