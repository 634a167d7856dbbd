// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"gamedrop_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogEntryAdded is published after a catalog entry was persisted.
type CatalogEntryAdded struct {
	BaseEvent
	EntryID  uuid.UUID `json:"entryId"`
	Title    string    `json:"title"`
	ImageURL string    `json:"imageUrl"`
}

func (e CatalogEntryAdded) EventName() string { return "catalog.entry.added" }

// CatalogEntryDeleted is published after a catalog entry was removed.
type CatalogEntryDeleted struct {
	BaseEvent
	EntryID uuid.UUID `json:"entryId"`
	Title   string    `json:"title"`
}

func (e CatalogEntryDeleted) EventName() string { return "catalog.entry.deleted" }

// =============================================================================
// Request Domain Events
// =============================================================================

// GameRequested is published after a game request was dispatched
// to the notification channel.
type GameRequested struct {
	BaseEvent
	AppID     int    `json:"appId"`
	Title     string `json:"title"`
	Requester string `json:"requester"`
}

func (e GameRequested) EventName() string { return "request.game.requested" }
