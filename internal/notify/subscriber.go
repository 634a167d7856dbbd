package notify

import (
	"context"

	"gamedrop_backend/internal/events"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
)

// Subscriber reacts to domain events with best-effort webhook
// announcements. Dispatch failures are logged and never propagated
// back to the publishing workflow.
type Subscriber struct {
	dispatcher *Dispatcher
	cfg        config.WebhookConfig
	log        *logger.Logger
}

// NewSubscriber creates the announcement subscriber.
func NewSubscriber(dispatcher *Dispatcher, cfg config.WebhookConfig, log *logger.Logger) *Subscriber {
	return &Subscriber{dispatcher: dispatcher, cfg: cfg, log: log}
}

// Register subscribes to the events this subscriber handles.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(events.CatalogEntryAdded{}.EventName(), events.HandlerFunc(s.onEntryAdded))
}

func (s *Subscriber) onEntryAdded(ctx context.Context, event events.Event) error {
	if !s.cfg.IsAnnounceEnabled() {
		return nil
	}

	added, ok := event.(events.CatalogEntryAdded)
	if !ok {
		return nil
	}

	err := s.dispatcher.DispatchAnnouncement(ctx, s.cfg.GetAnnounceWebhookURL(), added.Title, added.ImageURL)
	if err != nil {
		s.log.Warn("catalog announcement failed", "entry_id", added.EntryID, "error", err)
	}
	return nil
}
