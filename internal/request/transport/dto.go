// Package transport defines request and response DTOs for the request module.
package transport

import "github.com/google/uuid"

// SubmitRequest asks for a game to be added to the catalog. The game
// comes from the live search session's confirmed selection.
type SubmitRequest struct {
	SessionID uuid.UUID `json:"sessionId" validate:"required"`
	Requester string    `json:"requester" validate:"required,min=2,max=64"`
	FormToken string    `json:"formToken" validate:"omitempty,max=128"`
}

// SubmitResponse acknowledges a dispatched request.
type SubmitResponse struct {
	Status string `json:"status"`
	AppID  int    `json:"appId"`
	Title  string `json:"title"`
}
