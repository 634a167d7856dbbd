package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"gamedrop_backend/internal/catalog/repository"
	"gamedrop_backend/internal/events"
	steamtransport "gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/logger"
)

type fakeStore struct {
	mu      sync.Mutex
	entries []repository.Entry
	fail    error
}

func (f *fakeStore) Create(ctx context.Context, entry *repository.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]repository.Entry(nil), f.entries...), nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return repository.Entry{}, repository.ErrEntryNotFound
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) (repository.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return e, nil
		}
	}
	return repository.Entry{}, repository.ErrEntryNotFound
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeSelections struct {
	candidate *steamtransport.Candidate
}

func (f *fakeSelections) Locked(id uuid.UUID) (steamtransport.Candidate, bool) {
	if f.candidate == nil {
		return steamtransport.Candidate{}, false
	}
	return *f.candidate, true
}

type fakeEnricher struct {
	record *steamtransport.DetailRecord
}

func (f *fakeEnricher) Fetch(ctx context.Context, appID int) (*steamtransport.DetailRecord, bool) {
	if f.record == nil {
		return nil, false
	}
	return f.record, true
}

type fakeShortener struct {
	short     string
	fail      error
	block     chan struct{}
	started   chan struct{}
	startOnce sync.Once
}

func (f *fakeShortener) Shorten(ctx context.Context, targetURL, name string) (string, error) {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}
	if f.fail != nil {
		return "", f.fail
	}
	return f.short, nil
}

func strPtr(s string) *string { return &s }

func newService(store *fakeStore, sel *fakeSelections, enr *fakeEnricher, sh *fakeShortener) (*Service, events.Bus) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	return New(store, sel, enr, sh, bus, log), bus
}

func lockedFIFA() *fakeSelections {
	return &fakeSelections{candidate: &steamtransport.Candidate{
		AppID:    1313860,
		Name:     "EA SPORTS FIFA 21",
		ImageURL: "https://cdn.akamai.steamstatic.com/steam/apps/1313860/header.jpg",
	}}
}

func TestAddEntryFullEnrichment(t *testing.T) {
	store := &fakeStore{}
	enricher := &fakeEnricher{record: &steamtransport.DetailRecord{
		AppID:       1313860,
		Name:        "EA SPORTS FIFA 21",
		Summary:     strPtr("Le football est de retour."),
		ReleaseDate: strPtr("9 oct. 2020"),
		Developers:  []string{"EA Canada"},
		Genres:      []string{"Sport"},
	}}
	svc, _ := newService(store, lockedFIFA(), enricher, &fakeShortener{short: "https://clic.tn/abc"})

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		AddedBy:     "admin@example.com",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	if entry.DownloadURL != "https://clic.tn/abc" {
		t.Errorf("download URL = %q, want shortened link", entry.DownloadURL)
	}
	if entry.Summary == nil || *entry.Summary != "Le football est de retour." {
		t.Errorf("summary = %v", entry.Summary)
	}
	if entry.AddedBy != "admin@example.com" {
		t.Errorf("added by = %q", entry.AddedBy)
	}
	if store.count() != 1 {
		t.Fatalf("stored entries = %d, want 1", store.count())
	}
}

func TestAddEntryAppliesFlagsAndOverrides(t *testing.T) {
	store := &fakeStore{}
	enricher := &fakeEnricher{record: &steamtransport.DetailRecord{
		AppID:     1313860,
		Name:      "EA SPORTS FIFA 21",
		ImageURL:  "https://img.example/enriched.jpg",
		Platforms: &steamtransport.Platforms{Windows: true, Mac: true},
	}}
	svc, _ := newService(store, lockedFIFA(), enricher, &fakeShortener{short: "https://clic.tn/abc"})

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		Title:       "FIFA 21 (FR)",
		ImageURL:    "https://img.example/custom.jpg",
		Multiplayer: true,
		Torrent:     true,
		AddedBy:     "admin@example.com",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	if entry.Title != "FIFA 21 (FR)" {
		t.Errorf("title = %q, want operator override", entry.Title)
	}
	if entry.ImageURL != "https://img.example/custom.jpg" {
		t.Errorf("image = %q, want operator override over enrichment", entry.ImageURL)
	}
	if !entry.Multiplayer || !entry.Torrent {
		t.Errorf("flags = multiplayer:%v torrent:%v", entry.Multiplayer, entry.Torrent)
	}
	if len(entry.Platforms) != 2 || entry.Platforms[0] != "windows" || entry.Platforms[1] != "mac" {
		t.Errorf("platforms = %v", entry.Platforms)
	}
}

func TestAddEntryDegradesWithoutDetails(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newService(store, lockedFIFA(), &fakeEnricher{}, &fakeShortener{short: "https://clic.tn/abc"})

	entry, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		AddedBy:     "admin@example.com",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	if entry.Summary != nil || entry.ReleaseDate != nil || entry.Developers != nil {
		t.Errorf("expected nil optional fields, got %+v", entry)
	}
	if entry.Title != "EA SPORTS FIFA 21" {
		t.Errorf("title = %q", entry.Title)
	}
	if store.count() != 1 {
		t.Fatalf("stored entries = %d, want 1", store.count())
	}
}

func TestAddEntryShortenerFailureWritesNothing(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newService(store, lockedFIFA(), &fakeEnricher{}, &fakeShortener{fail: apperr.Upstream("link shortening failed")})

	_, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		AddedBy:     "admin@example.com",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUpstream {
		t.Fatalf("error = %v, want upstream kind", err)
	}
	if store.count() != 0 {
		t.Fatalf("stored entries = %d, want 0", store.count())
	}
}

func TestAddEntryRequiresLockedSelection(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newService(store, &fakeSelections{}, &fakeEnricher{}, &fakeShortener{short: "x"})

	_, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindValidation {
		t.Fatalf("error = %v, want validation kind", err)
	}
	if store.count() != 0 {
		t.Fatalf("stored entries = %d, want 0", store.count())
	}
}

func TestAddEntryDuplicateConflict(t *testing.T) {
	store := &fakeStore{fail: repository.ErrDuplicateApp}
	svc, _ := newService(store, lockedFIFA(), &fakeEnricher{}, &fakeShortener{short: "https://clic.tn/abc"})

	_, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
	})
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("error = %v, want conflict kind", err)
	}
}

func TestAddEntryRejectsConcurrentDuplicateSubmission(t *testing.T) {
	store := &fakeStore{}
	block := make(chan struct{})
	started := make(chan struct{})
	svc, _ := newService(store, lockedFIFA(), &fakeEnricher{}, &fakeShortener{
		short:   "https://clic.tn/abc",
		block:   block,
		started: started,
	})

	input := AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		FormToken:   "tok-1",
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.AddEntry(context.Background(), input)
		firstDone <- err
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first submission never reached the shortener")
	}

	// The first submission holds the guard while inside the shortener.
	_, err := svc.AddEntry(context.Background(), input)
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindConflict {
		t.Fatalf("second submission error = %v, want conflict kind", err)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	if store.count() != 1 {
		t.Fatalf("stored entries = %d, want 1", store.count())
	}
}

func TestGetReturnsPersistedEntry(t *testing.T) {
	store := &fakeStore{}
	svc, _ := newService(store, lockedFIFA(), &fakeEnricher{}, &fakeShortener{short: "https://clic.tn/abc"})

	created, err := svc.AddEntry(context.Background(), AddEntryInput{
		SessionID:   uuid.New(),
		DownloadURL: "https://example.com/fifa21.zip",
		AddedBy:     "admin@example.com",
	})
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.ID != created.ID || got.Title != created.Title {
		t.Fatalf("got = %+v, want created entry", got)
	}

	_, err = svc.Get(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("error = %v, want not found kind", err)
	}
}

func TestDeleteMissingEntry(t *testing.T) {
	svc, _ := newService(&fakeStore{}, lockedFIFA(), &fakeEnricher{}, &fakeShortener{short: "x"})

	err := svc.Delete(context.Background(), uuid.New())
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindNotFound {
		t.Fatalf("error = %v, want not found kind", err)
	}
}
