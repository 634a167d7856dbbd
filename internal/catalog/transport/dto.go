// Package transport defines request and response DTOs for the catalog module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// AddEntryRequest ingests a new catalog entry. The game itself comes
// from the live search session's confirmed selection; free-text titles
// are not accepted.
type AddEntryRequest struct {
	SessionID   uuid.UUID `json:"sessionId" validate:"required"`
	DownloadURL string    `json:"downloadUrl" validate:"required,url"`
	// Title and ImageURL override the selected candidate's values when set.
	Title       string `json:"title" validate:"omitempty,max=512"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Multiplayer bool   `json:"multiplayer"`
	Torrent     bool   `json:"torrent"`
	FormToken   string `json:"formToken" validate:"omitempty,max=128"`
}

// EntryResponse is a persisted catalog entry.
type EntryResponse struct {
	ID          uuid.UUID `json:"id"`
	AppID       int       `json:"appId"`
	Title       string    `json:"title"`
	ImageURL    string    `json:"imageUrl"`
	DownloadURL string    `json:"downloadUrl"`
	Multiplayer bool      `json:"multiplayer"`
	Torrent     bool      `json:"torrent"`
	Summary     *string   `json:"summary,omitempty"`
	ReleaseDate *string   `json:"releaseDate,omitempty"`
	Developers  []string  `json:"developers,omitempty"`
	Publishers  []string  `json:"publishers,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	AddedBy     string    `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListEntriesResponse is the public catalog listing, newest first.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}
