package models

import "strings"

type Meta struct {
	RecordCount int `json:"record_count"`
}

// APIResponse is the JSON:API envelope returned by the houses backend.
type APIResponse[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Document wraps a request body in the backend's {"data": ...} envelope.
type Document[T any] struct {
	Data T `json:"data"`
}

type ErrorSource struct {
	Pointer string `json:"pointer,omitempty"`
}

type APIError struct {
	Title  string      `json:"title,omitempty"`
	Detail string      `json:"detail,omitempty"`
	Code   string      `json:"code,omitempty"`
	Source ErrorSource `json:"source"`
	Status string      `json:"status,omitempty"`
}

type APIErrorResponse struct {
	Errors []APIError `json:"errors"`
}

// Details returns the non-empty detail strings in order.
func (r APIErrorResponse) Details() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		if d := strings.TrimSpace(e.Detail); d != "" {
			out = append(out, d)
		}
	}
	return out
}
