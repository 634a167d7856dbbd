// Package client provides the HTTP clients for the Steam catalog APIs:
// community search (primary), the full app list (fallback snapshot) and
// the store detail endpoint (enrichment).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/logger"
)

const (
	communityBaseURL = "https://steamcommunity.com"
	storeAPIBaseURL  = "https://api.steampowered.com"
	storeBaseURL     = "https://store.steampowered.com"

	// detailLocale pins the enrichment payload to a single locale,
	// matching the catalog's audience.
	detailLocale = "french"

	// The upstream endpoints reject the default Go User-Agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// Client is the HTTP client for the Steam catalog APIs.
type Client struct {
	httpClient   *http.Client
	communityURL string
	storeAPIURL  string
	storeURL     string
	log          *logger.Logger
}

// New creates a new Steam API client with production endpoints.
func New(log *logger.Logger) *Client {
	return NewWithEndpoints(communityBaseURL, storeAPIBaseURL, storeBaseURL, log)
}

// NewWithEndpoints creates a client against explicit base URLs.
// Used by tests to point at a local server.
func NewWithEndpoints(communityURL, storeAPIURL, storeURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		communityURL: communityURL,
		storeAPIURL:  storeAPIURL,
		storeURL:     storeURL,
		log:          log,
	}
}

// searchItem is the raw community search entry. The appid arrives as a
// string; entries that do not parse to a positive integer are dropped.
type searchItem struct {
	AppID json.Number `json:"appid"`
	Name  string      `json:"name"`
	Logo  string      `json:"logo"`
}

// Search queries the community search endpoint and returns candidates in
// provider order. A non-2xx status or a malformed body is an error; the
// caller decides how to degrade.
func (c *Client) Search(ctx context.Context, query string) ([]transport.Candidate, error) {
	reqURL := fmt.Sprintf("%s/actions/SearchApps/%s", c.communityURL, url.PathEscape(query))

	var items []searchItem
	if err := c.getJSON(ctx, reqURL, &items); err != nil {
		return nil, err
	}

	candidates := make([]transport.Candidate, 0, len(items))
	for _, item := range items {
		appID, err := strconv.Atoi(item.AppID.String())
		if err != nil || appID <= 0 {
			continue
		}
		imageURL := item.Logo
		if imageURL == "" {
			imageURL = transport.HeaderImageURL(appID)
		}
		candidates = append(candidates, transport.Candidate{
			AppID:    appID,
			Name:     item.Name,
			ImageURL: imageURL,
		})
	}

	return candidates, nil
}

type appListResponse struct {
	AppList struct {
		Apps []transport.CatalogApp `json:"apps"`
	} `json:"applist"`
}

// AppList fetches the complete catalog snapshot: every known title with
// its identifier. The snapshot is large and fetched fresh on every call;
// caching is the caller's concern.
func (c *Client) AppList(ctx context.Context) ([]transport.CatalogApp, error) {
	reqURL := fmt.Sprintf("%s/ISteamApps/GetAppList/v2/", c.storeAPIURL)

	var payload appListResponse
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	return payload.AppList.Apps, nil
}

// detailEntry is the raw per-id envelope of the store detail endpoint.
type detailEntry struct {
	Success bool        `json:"success"`
	Data    *detailData `json:"data"`
}

type detailData struct {
	SteamAppID       int      `json:"steam_appid"`
	Name             string   `json:"name"`
	HeaderImage      string   `json:"header_image"`
	ShortDescription string   `json:"short_description"`
	Developers       []string `json:"developers"`
	Publishers       []string `json:"publishers"`
	Genres           []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"genres"`
	ReleaseDate *struct {
		ComingSoon bool   `json:"coming_soon"`
		Date       string `json:"date"`
	} `json:"release_date"`
	Platforms *transport.Platforms `json:"platforms"`
}

// Details fetches the enriched detail record for one app ID.
// A missing or unsuccessful entry is an error; optional fields absent in
// the payload remain absent in the returned record.
func (c *Client) Details(ctx context.Context, appID int) (*transport.DetailRecord, error) {
	reqURL := fmt.Sprintf("%s/api/appdetails?appids=%d&l=%s", c.storeURL, appID, detailLocale)

	var payload map[string]detailEntry
	if err := c.getJSON(ctx, reqURL, &payload); err != nil {
		return nil, err
	}

	entry, ok := payload[strconv.Itoa(appID)]
	if !ok || !entry.Success || entry.Data == nil {
		return nil, fmt.Errorf("no details for app %d", appID)
	}

	return entry.Data.toRecord(), nil
}

func (d *detailData) toRecord() *transport.DetailRecord {
	record := &transport.DetailRecord{
		AppID:      d.SteamAppID,
		Name:       d.Name,
		ImageURL:   d.HeaderImage,
		Developers: d.Developers,
		Publishers: d.Publishers,
		Platforms:  d.Platforms,
	}

	if d.ShortDescription != "" {
		summary := d.ShortDescription
		record.Summary = &summary
	}
	if d.ReleaseDate != nil && d.ReleaseDate.Date != "" {
		date := d.ReleaseDate.Date
		record.ReleaseDate = &date
	}
	for _, genre := range d.Genres {
		if genre.Description != "" {
			record.Genres = append(record.Genres, genre.Description)
		}
	}

	return record
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("steam", "request", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("steam", "request", fmt.Errorf("status %d", resp.StatusCode))
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError("steam", "decode", err)
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
