// Package dto defines request and response shapes for the v1 HTTP API.
package dto

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// IDResponse returns a created resource identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// ListResponse wraps a list of items with its total count.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
