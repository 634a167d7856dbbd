// Package transport defines the domain-facing types produced by the
// Steam provider clients.
package transport

import "fmt"

// headerImageTemplate is the deterministic CDN location of a title's
// header image. The asset is not guaranteed to exist; broken images are
// a display-layer concern.
const headerImageTemplate = "https://cdn.akamai.steamstatic.com/steam/apps/%d/header.jpg"

// HeaderImageURL synthesizes the CDN header image URL for an app ID.
func HeaderImageURL(appID int) string {
	return fmt.Sprintf(headerImageTemplate, appID)
}

// Candidate is an unconfirmed, display-ready search result pending
// user selection. Candidates are ephemeral and never persisted.
type Candidate struct {
	AppID    int    `json:"appId"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// CatalogApp is one entry of the full catalog snapshot used by the
// fallback search strategy.
type CatalogApp struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// Platforms describes platform support flags of a title.
type Platforms struct {
	Windows bool `json:"windows"`
	Mac     bool `json:"mac"`
	Linux   bool `json:"linux"`
}

// DetailRecord is the enriched per-title record returned by the detail
// endpoint. Optional fields are pointers or nil slices; absence is a
// valid state and is never replaced with empty-string placeholders.
type DetailRecord struct {
	AppID       int        `json:"appId"`
	Name        string     `json:"name"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Summary     *string    `json:"summary,omitempty"`
	Developers  []string   `json:"developers,omitempty"`
	Publishers  []string   `json:"publishers,omitempty"`
	Genres      []string   `json:"genres,omitempty"`
	ReleaseDate *string    `json:"releaseDate,omitempty"`
	Platforms   *Platforms `json:"platforms,omitempty"`
}
