// Package transport defines request and response DTOs for the search module.
package transport

import (
	"github.com/google/uuid"

	steamtransport "gamedrop_backend/internal/steam/transport"
)

// SearchResponse is the payload for a direct search.
type SearchResponse struct {
	Query   string                     `json:"query"`
	Results []steamtransport.Candidate `json:"results"`
}

// CreateSessionResponse returns the ID of a freshly opened live session.
type CreateSessionResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
}

// SessionInputRequest carries one text edit for a live session. An empty
// text is valid and clears the field.
type SessionInputRequest struct {
	Text string `json:"text" validate:"max=256"`
}

// SessionSelectRequest confirms a candidate in a live session.
type SessionSelectRequest struct {
	AppID    int    `json:"appId" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,max=512"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}
