package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"
)

type fakeProvider struct {
	searchResults []transport.Candidate
	searchErr     error
	apps          []transport.CatalogApp
	appListErr    error

	searchCalls  int32
	appListCalls int32
}

func (f *fakeProvider) Search(ctx context.Context, query string) ([]transport.Candidate, error) {
	atomic.AddInt32(&f.searchCalls, 1)
	return f.searchResults, f.searchErr
}

func (f *fakeProvider) AppList(ctx context.Context) ([]transport.CatalogApp, error) {
	atomic.AddInt32(&f.appListCalls, 1)
	return f.apps, f.appListErr
}

// fifaApps mirrors the ordering quirks of the real catalog: the exact
// match sits after prefix and substring entries.
var fifaApps = []transport.CatalogApp{
	{AppID: 1, Name: "FIFA Manager 14"},
	{AppID: 2, Name: "Super FIFA Kart"},
	{AppID: 3, Name: "fifa"},
	{AppID: 4, Name: "FIFA 22"},
	{AppID: 5, Name: "World of FIFA"},
	{AppID: 6, Name: "Rocket League"},
}

func newResolver(p *fakeProvider) *Service {
	return New(p, nil, logger.New("test"))
}

func TestResolveShortQuerySkipsNetwork(t *testing.T) {
	provider := &fakeProvider{}
	svc := newResolver(provider)

	for _, q := range []string{"", " ", "f", " f "} {
		results := svc.Resolve(context.Background(), q)
		if len(results) != 0 {
			t.Errorf("query %q returned %d results, want 0", q, len(results))
		}
	}
	if provider.searchCalls != 0 || provider.appListCalls != 0 {
		t.Fatalf("network touched for short queries: search=%d applist=%d", provider.searchCalls, provider.appListCalls)
	}
}

func TestResolvePrimarySuccessSkipsFallback(t *testing.T) {
	provider := &fakeProvider{
		searchResults: []transport.Candidate{{AppID: 1313860, Name: "EA SPORTS FIFA 21"}},
	}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "fifa")
	if len(results) != 1 || results[0].AppID != 1313860 {
		t.Fatalf("results = %+v", results)
	}
	if provider.appListCalls != 0 {
		t.Fatalf("fallback used despite primary success")
	}
}

func TestResolveFallbackTierOrdering(t *testing.T) {
	provider := &fakeProvider{searchErr: errors.New("search down"), apps: fifaApps}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "FIFA")

	got := make([]string, 0, len(results))
	for _, r := range results {
		got = append(got, r.Name)
	}
	want := []string{"fifa", "FIFA Manager 14", "FIFA 22", "Super FIFA Kart", "World of FIFA"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestResolveFallbackOnEmptyPrimary(t *testing.T) {
	provider := &fakeProvider{apps: fifaApps}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "rocket")
	if len(results) != 1 || results[0].Name != "Rocket League" {
		t.Fatalf("results = %+v", results)
	}
	if provider.appListCalls != 1 {
		t.Fatalf("applist calls = %d, want 1", provider.appListCalls)
	}
}

func TestResolveFallbackFillsImageURL(t *testing.T) {
	provider := &fakeProvider{apps: fifaApps}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "rocket")
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].ImageURL != transport.HeaderImageURL(6) {
		t.Fatalf("image URL = %q", results[0].ImageURL)
	}
}

func TestResolveTruncatesToTen(t *testing.T) {
	apps := make([]transport.CatalogApp, 0, 25)
	for i := 0; i < 25; i++ {
		apps = append(apps, transport.CatalogApp{AppID: i + 1, Name: "Portal Chapter"})
	}
	provider := &fakeProvider{apps: apps}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "portal")
	if len(results) != 10 {
		t.Fatalf("results = %d, want 10", len(results))
	}
	// Catalog order is preserved within the tier.
	for i, r := range results {
		if r.AppID != i+1 {
			t.Fatalf("result %d appID = %d", i, r.AppID)
		}
	}
}

func TestResolveTotalOnDoubleFailure(t *testing.T) {
	provider := &fakeProvider{
		searchErr:  errors.New("search down"),
		appListErr: errors.New("applist down"),
	}
	svc := newResolver(provider)

	results := svc.Resolve(context.Background(), "fifa")
	if results == nil {
		t.Fatal("results is nil, want empty slice")
	}
	if len(results) != 0 {
		t.Fatalf("results = %+v, want empty", results)
	}
}

type recordingCache struct {
	mu   sync.Mutex
	apps []transport.CatalogApp
	sets int
}

func (c *recordingCache) Get(ctx context.Context) ([]transport.CatalogApp, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.apps == nil {
		return nil, false
	}
	return c.apps, true
}

func (c *recordingCache) Set(ctx context.Context, apps []transport.CatalogApp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apps = apps
	c.sets++
}

func TestResolveSnapshotCacheAvoidsRefetch(t *testing.T) {
	provider := &fakeProvider{searchErr: errors.New("search down"), apps: fifaApps}
	cache := &recordingCache{}
	svc := New(provider, cache, logger.New("test"))

	svc.Resolve(context.Background(), "fifa")
	svc.Resolve(context.Background(), "rocket")

	if provider.appListCalls != 1 {
		t.Fatalf("applist calls = %d, want 1 (second resolve served from cache)", provider.appListCalls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}
}
