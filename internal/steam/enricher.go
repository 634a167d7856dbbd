// Package steam exposes the detail enrichment surface over the raw
// provider client.
package steam

import (
	"context"

	"gamedrop_backend/internal/steam/client"
	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"
)

// Enricher fetches enriched detail records. Unavailability is an
// expected, recoverable outcome and is reported via the boolean return,
// never as an error.
type Enricher struct {
	client *client.Client
	log    *logger.Logger
}

// NewEnricher creates an enricher over the given client.
func NewEnricher(c *client.Client, log *logger.Logger) *Enricher {
	return &Enricher{client: c, log: log}
}

// Fetch returns the detail record for an app ID, or (nil, false) when no
// enrichment is available: network failure, unknown id or a malformed
// payload all degrade the same way. Callers proceed without enrichment.
func (e *Enricher) Fetch(ctx context.Context, appID int) (*transport.DetailRecord, bool) {
	record, err := e.client.Details(ctx, appID)
	if err != nil {
		e.log.Debug("enrichment unavailable", "appId", appID, "error", err)
		return nil, false
	}
	return record, true
}
