// Package service implements the search fallback resolver: free-text
// queries are resolved against the primary provider and degrade to a
// ranked scan of the full catalog snapshot.
package service

import (
	"context"
	"strings"

	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"

	"golang.org/x/sync/singleflight"
)

const (
	// minQueryLen is the fixed lower bound below which the resolver
	// refuses to touch the network.
	minQueryLen = 2
	// maxResults caps every resolve call.
	maxResults = 10

	snapshotKey = "steam:applist"
)

// Provider is the external catalog the resolver queries.
type Provider interface {
	Search(ctx context.Context, query string) ([]transport.Candidate, error)
	AppList(ctx context.Context) ([]transport.CatalogApp, error)
}

// SnapshotCache is an optional time-bounded cache of the full catalog
// snapshot. Passing nil disables caching and preserves the original
// fetch-fresh-on-every-fallback behavior.
type SnapshotCache interface {
	Get(ctx context.Context) ([]transport.CatalogApp, bool)
	Set(ctx context.Context, apps []transport.CatalogApp)
}

// Service is the search fallback resolver.
type Service struct {
	provider Provider
	cache    SnapshotCache
	flight   singleflight.Group
	log      *logger.Logger
}

// New creates a resolver. cache may be nil to disable snapshot caching.
func New(provider Provider, cache SnapshotCache, log *logger.Logger) *Service {
	return &Service{provider: provider, cache: cache, log: log}
}

// Resolve returns up to 10 candidates for the query. It is total: every
// failure degrades to a smaller (possibly empty) result, never an error.
// Queries shorter than 2 characters after trimming return an empty list
// without any network activity.
func (s *Service) Resolve(ctx context.Context, query string) []transport.Candidate {
	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < minQueryLen {
		return []transport.Candidate{}
	}

	candidates, err := s.provider.Search(ctx, trimmed)
	if err == nil && len(candidates) > 0 {
		return truncate(candidates)
	}
	if err != nil {
		s.log.SearchFallback(trimmed, err.Error())
	} else {
		s.log.SearchFallback(trimmed, "empty primary result")
	}

	apps, err := s.snapshot(ctx)
	if err != nil {
		s.log.UpstreamError("steam", "applist", err)
		return []transport.Candidate{}
	}

	return rankSnapshot(apps, trimmed)
}

// snapshot returns the full catalog, going through the cache when one is
// configured. Concurrent misses collapse into a single provider fetch.
func (s *Service) snapshot(ctx context.Context) ([]transport.CatalogApp, error) {
	if s.cache != nil {
		if apps, ok := s.cache.Get(ctx); ok {
			return apps, nil
		}
	}

	result, err, _ := s.flight.Do(snapshotKey, func() (interface{}, error) {
		apps, err := s.provider.AppList(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(ctx, apps)
		}
		return apps, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]transport.CatalogApp), nil
}

// rankSnapshot classifies every snapshot entry against the lower-cased
// trimmed query into exactly one tier, tested in order: exact equality,
// prefix, substring. Tiers are concatenated preserving catalog order and
// the result is truncated to 10.
func rankSnapshot(apps []transport.CatalogApp, query string) []transport.Candidate {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	var exact, prefix, contains []transport.CatalogApp
	for _, app := range apps {
		nameLower := strings.ToLower(app.Name)
		switch {
		case nameLower == queryLower:
			exact = append(exact, app)
		case strings.HasPrefix(nameLower, queryLower):
			prefix = append(prefix, app)
		case strings.Contains(nameLower, queryLower):
			contains = append(contains, app)
		}
	}

	merged := make([]transport.CatalogApp, 0, len(exact)+len(prefix)+len(contains))
	merged = append(merged, exact...)
	merged = append(merged, prefix...)
	merged = append(merged, contains...)
	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}

	candidates := make([]transport.Candidate, 0, len(merged))
	for _, app := range merged {
		candidates = append(candidates, transport.Candidate{
			AppID:    app.AppID,
			Name:     app.Name,
			ImageURL: transport.HeaderImageURL(app.AppID),
		})
	}
	return candidates
}

func truncate(candidates []transport.Candidate) []transport.Candidate {
	if len(candidates) > maxResults {
		return candidates[:maxResults]
	}
	return candidates
}
