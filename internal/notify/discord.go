// Package notify delivers outbound Discord webhook notifications.
// Delivery is one POST per notification with no retry; a failed
// dispatch surfaces as an error and is never queued.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/logger"
)

const (
	providerName = "discord"
	embedColor   = 0x8a2be2
)

// Embed is a Discord rich embed.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Thumbnail   *EmbedImage  `json:"thumbnail,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField is one name/value pair inside an embed.
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedImage references an image by URL.
type EmbedImage struct {
	URL string `json:"url"`
}

// EmbedFooter is the embed footer line.
type EmbedFooter struct {
	Text string `json:"text"`
}

type webhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds"`
}

// RequestNotification describes a game request to announce.
type RequestNotification struct {
	AppID     int
	Title     string
	Requester string
	ImageURL  string
}

// Dispatcher posts notifications to Discord webhooks.
type Dispatcher struct {
	httpClient *http.Client
	log        *logger.Logger
}

// NewDispatcher creates a webhook dispatcher.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// DispatchRequest announces a game request on the given webhook.
func (d *Dispatcher) DispatchRequest(ctx context.Context, webhookURL string, n RequestNotification) error {
	embed := Embed{
		Title:       n.Title,
		Description: "Nouvelle demande de jeu",
		Color:       embedColor,
		Fields: []EmbedField{
			{Name: "App ID", Value: fmt.Sprintf("%d", n.AppID), Inline: true},
			{Name: "Demandé par", Value: n.Requester, Inline: true},
		},
		Footer:    &EmbedFooter{Text: "GameDrop"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if n.ImageURL != "" {
		embed.Thumbnail = &EmbedImage{URL: n.ImageURL}
	}

	return d.post(ctx, webhookURL, webhookPayload{
		Content: "🎮 **Nouvelle demande de jeu**",
		Embeds:  []Embed{embed},
	})
}

// DispatchAnnouncement announces a newly added catalog entry.
func (d *Dispatcher) DispatchAnnouncement(ctx context.Context, webhookURL, title, imageURL string) error {
	embed := Embed{
		Title:       "Nouveau jeu disponible",
		Description: title,
		Color:       embedColor,
		Footer:      &EmbedFooter{Text: "GameDrop"},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if imageURL != "" {
		embed.Thumbnail = &EmbedImage{URL: imageURL}
	}

	return d.post(ctx, webhookURL, webhookPayload{Embeds: []Embed{embed}})
}

func (d *Dispatcher) post(ctx context.Context, webhookURL string, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encode webhook payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "build webhook request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.log.UpstreamError(providerName, "webhook", err)
		return apperr.Wrap(apperr.KindUpstream, "notification dispatch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("unexpected status %d", resp.StatusCode)
		d.log.UpstreamError(providerName, "webhook", err)
		return apperr.Wrap(apperr.KindUpstream, "notification dispatch failed", err)
	}

	return nil
}
