// Package shortener wraps the ClicTune link shortening API. Shortening
// is a single attempt; a response without an explicit success status and
// a non-empty shortened URL is a failure, whatever the HTTP status was.
package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
)

const providerName = "clictune"

// Client calls the ClicTune create_link endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userID     string
	apiKey     string
	log        *logger.Logger
}

// New creates a shortener client from configuration.
func New(cfg config.ShortenerConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.GetShortenerBaseURL(),
		userID:     cfg.GetShortenerUserID(),
		apiKey:     cfg.GetShortenerAPIKey(),
		log:        log,
	}
}

type createLinkResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
	Message      string `json:"message"`
}

// Shorten creates a monetized short link for targetURL. The name labels
// the link in the provider's dashboard.
func (c *Client) Shorten(ctx context.Context, targetURL, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/Links_api/create_link?user_id=%s&api_key=%s&url=%s&name=%s",
		c.baseURL,
		url.QueryEscape(c.userID),
		url.QueryEscape(c.apiKey),
		url.QueryEscape(targetURL),
		url.QueryEscape(name),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.KindInternal, "build shorten request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError(providerName, "create_link", err)
		return "", apperr.Wrap(apperr.KindUpstream, "link shortening failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		c.log.UpstreamError(providerName, "create_link", err)
		return "", apperr.Wrap(apperr.KindUpstream, "link shortening failed", err)
	}

	var body createLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.UpstreamError(providerName, "create_link", err)
		return "", apperr.Wrap(apperr.KindUpstream, "link shortening failed", err)
	}

	// A well-formed 200 can still be a refusal; the provider signals
	// success only through the status field plus a usable URL.
	if body.Status == "" || body.ShortenedURL == "" {
		message := body.Message
		if message == "" {
			message = "provider returned no shortened URL"
		}
		err := fmt.Errorf("create_link rejected: %s", message)
		c.log.UpstreamError(providerName, "create_link", err)
		return "", apperr.Wrap(apperr.KindUpstream, "link shortening failed", err)
	}

	return body.ShortenedURL, nil
}
