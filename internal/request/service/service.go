// Package service implements the game request workflow.
package service

import (
	"context"

	"github.com/google/uuid"

	"gamedrop_backend/internal/events"
	"gamedrop_backend/internal/notify"
	"gamedrop_backend/internal/shared/guard"
	steamtransport "gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
	"gamedrop_backend/platform/sanitize"
)

// Selections resolves and releases a live session's confirmed candidate.
type Selections interface {
	Locked(id uuid.UUID) (steamtransport.Candidate, bool)
	Clear(id uuid.UUID) bool
}

// Dispatcher delivers the request notification. One call, no retry.
type Dispatcher interface {
	DispatchRequest(ctx context.Context, webhookURL string, n notify.RequestNotification) error
}

// SubmitInput carries one request submission.
type SubmitInput struct {
	SessionID uuid.UUID
	Requester string
	FormToken string
}

// Result describes the dispatched request.
type Result struct {
	AppID int
	Title string
}

// Service orchestrates game request submissions.
type Service struct {
	selections Selections
	dispatcher Dispatcher
	cfg        config.WebhookConfig
	flight     *guard.Flight
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new request service.
func New(selections Selections, dispatcher Dispatcher, cfg config.WebhookConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		selections: selections,
		dispatcher: dispatcher,
		cfg:        cfg,
		flight:     guard.New(),
		bus:        bus,
		log:        log,
	}
}

// Submit dispatches a game request. The payload is transient; nothing is
// persisted. A successful dispatch clears the session's selection, while
// a failed one leaves it intact so the same submission can be retried.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Result, error) {
	key := in.FormToken
	if key == "" {
		key = in.SessionID.String()
	}
	if !s.flight.TryAcquire("request:" + key) {
		return Result{}, apperr.Conflict("submission already in progress")
	}
	defer s.flight.Release("request:" + key)

	candidate, locked := s.selections.Locked(in.SessionID)
	if !locked {
		return Result{}, apperr.Validation("no game selected")
	}

	requester := sanitize.Text(in.Requester)
	if requester == "" {
		return Result{}, apperr.Validation("requester name is required")
	}

	imageURL := candidate.ImageURL
	if imageURL == "" {
		imageURL = steamtransport.HeaderImageURL(candidate.AppID)
	}

	err := s.dispatcher.DispatchRequest(ctx, s.cfg.GetRequestWebhookURL(), notify.RequestNotification{
		AppID:     candidate.AppID,
		Title:     candidate.Name,
		Requester: requester,
		ImageURL:  imageURL,
	})
	if err != nil {
		// The selection stays locked so the same submission can be
		// retried.
		return Result{}, err
	}

	// A dispatched selection is consumed; the session starts over.
	s.selections.Clear(in.SessionID)

	s.log.Info("game request dispatched", "app_id", candidate.AppID, "title", candidate.Name, "requester", requester)

	s.bus.Publish(ctx, events.GameRequested{
		BaseEvent: events.NewBaseEvent(),
		AppID:     candidate.AppID,
		Title:     candidate.Name,
		Requester: requester,
	})

	return Result{AppID: candidate.AppID, Title: candidate.Name}, nil
}
