// Package service implements the catalog ingestion workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gamedrop_backend/internal/catalog/repository"
	"gamedrop_backend/internal/events"
	"gamedrop_backend/internal/shared/guard"
	steamtransport "gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/logger"
)

// Store is the persistence boundary for catalog entries.
type Store interface {
	Create(ctx context.Context, entry *repository.Entry) error
	List(ctx context.Context) ([]repository.Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) (repository.Entry, error)
}

// Selections resolves a live session's confirmed candidate.
type Selections interface {
	Locked(id uuid.UUID) (steamtransport.Candidate, bool)
}

// Enricher fetches the optional detail record for a title. The boolean
// reports availability; an unavailable record is not an error.
type Enricher interface {
	Fetch(ctx context.Context, appID int) (*steamtransport.DetailRecord, bool)
}

// Shortener produces the monetized download link. Failure here aborts
// ingestion.
type Shortener interface {
	Shorten(ctx context.Context, targetURL, name string) (string, error)
}

// AddEntryInput carries one ingestion submission. Title and ImageURL,
// when set, override the selected candidate's values.
type AddEntryInput struct {
	SessionID   uuid.UUID
	DownloadURL string
	Title       string
	ImageURL    string
	Multiplayer bool
	Torrent     bool
	FormToken   string
	AddedBy     string
}

// Service orchestrates catalog ingestion and management.
type Service struct {
	store      Store
	selections Selections
	enricher   Enricher
	shortener  Shortener
	flight     *guard.Flight
	bus        events.Bus
	log        *logger.Logger
}

// New creates a new catalog service.
func New(store Store, selections Selections, enricher Enricher, shortener Shortener, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		store:      store,
		selections: selections,
		enricher:   enricher,
		shortener:  shortener,
		flight:     guard.New(),
		bus:        bus,
		log:        log,
	}
}

// AddEntry ingests a new catalog entry. The workflow is: confirm the
// session's locked candidate, enrich it best-effort, shorten the
// download link, then persist. Nothing is written before shortening
// succeeds, so a failed submission leaves no partial entry and keeps
// the session's selection intact for a retry.
func (s *Service) AddEntry(ctx context.Context, in AddEntryInput) (repository.Entry, error) {
	key := in.FormToken
	if key == "" {
		key = in.SessionID.String()
	}
	if !s.flight.TryAcquire("catalog:" + key) {
		return repository.Entry{}, apperr.Conflict("submission already in progress")
	}
	defer s.flight.Release("catalog:" + key)

	candidate, locked := s.selections.Locked(in.SessionID)
	if !locked {
		return repository.Entry{}, apperr.Validation("no game selected")
	}

	entry := repository.Entry{
		AppID:       candidate.AppID,
		Title:       candidate.Name,
		ImageURL:    candidate.ImageURL,
		Multiplayer: in.Multiplayer,
		Torrent:     in.Torrent,
		AddedBy:     in.AddedBy,
	}
	if entry.ImageURL == "" {
		entry.ImageURL = steamtransport.HeaderImageURL(candidate.AppID)
	}

	if record, ok := s.enricher.Fetch(ctx, candidate.AppID); ok {
		entry.Summary = record.Summary
		entry.ReleaseDate = record.ReleaseDate
		entry.Developers = record.Developers
		entry.Publishers = record.Publishers
		entry.Genres = record.Genres
		entry.Platforms = platformNames(record.Platforms)
		if record.ImageURL != "" {
			entry.ImageURL = record.ImageURL
		}
	}

	// Operator overrides win over both the candidate and enrichment.
	if title := strings.TrimSpace(in.Title); title != "" {
		entry.Title = title
	}
	if in.ImageURL != "" {
		entry.ImageURL = in.ImageURL
	}

	short, err := s.shortener.Shorten(ctx, in.DownloadURL, candidate.Name)
	if err != nil {
		return repository.Entry{}, err
	}
	entry.DownloadURL = short

	if err := s.store.Create(ctx, &entry); err != nil {
		if errors.Is(err, repository.ErrDuplicateApp) {
			return repository.Entry{}, apperr.Conflict(fmt.Sprintf("app %d is already in the catalog", candidate.AppID))
		}
		return repository.Entry{}, apperr.Wrap(apperr.KindInternal, "persist catalog entry", err)
	}

	s.log.Info("catalog entry added", "entry_id", entry.ID, "app_id", entry.AppID, "title", entry.Title, "added_by", in.AddedBy)

	event := events.CatalogEntryAdded{
		BaseEvent: events.NewBaseEvent(),
		EntryID:   entry.ID,
		Title:     entry.Title,
		ImageURL:  entry.ImageURL,
	}
	s.bus.Publish(ctx, event)

	return entry, nil
}

func platformNames(p *steamtransport.Platforms) []string {
	if p == nil {
		return nil
	}
	var names []string
	if p.Windows {
		names = append(names, "windows")
	}
	if p.Mac {
		names = append(names, "mac")
	}
	if p.Linux {
		names = append(names, "linux")
	}
	return names
}

// List returns the catalog, newest first.
func (s *Service) List(ctx context.Context) ([]repository.Entry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list catalog entries", err)
	}
	return entries, nil
}

// Get returns a single entry by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Entry, error) {
	entry, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return repository.Entry{}, apperr.NotFound("catalog entry not found")
		}
		return repository.Entry{}, apperr.Wrap(apperr.KindInternal, "get catalog entry", err)
	}
	return entry, nil
}

// Delete removes an entry by ID.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return apperr.NotFound("catalog entry not found")
		}
		return apperr.Wrap(apperr.KindInternal, "delete catalog entry", err)
	}

	s.log.Info("catalog entry deleted", "entry_id", entry.ID, "title", entry.Title)

	s.bus.Publish(ctx, events.CatalogEntryDeleted{
		BaseEvent: events.NewBaseEvent(),
		EntryID:   entry.ID,
		Title:     entry.Title,
	})
	return nil
}
