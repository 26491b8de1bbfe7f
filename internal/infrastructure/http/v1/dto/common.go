// Package dto defines typed request/response payloads. Validation happens
// here at the edge, before anything reaches the domain.
package dto

// IDResponse carries a created entity id.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success payload.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
