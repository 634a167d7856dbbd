package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gamedrop_backend/platform/apperr"
	"gamedrop_backend/platform/logger"
)

func TestDispatchRequestPayload(t *testing.T) {
	var captured webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDispatcher(logger.New("test"))
	err := d.DispatchRequest(context.Background(), srv.URL, RequestNotification{
		AppID:     1313860,
		Title:     "EA SPORTS FIFA 21",
		Requester: "admin@example.com",
		ImageURL:  "https://cdn.akamai.steamstatic.com/steam/apps/1313860/header.jpg",
	})
	if err != nil {
		t.Fatalf("DispatchRequest returned error: %v", err)
	}

	if captured.Content != "🎮 **Nouvelle demande de jeu**" {
		t.Errorf("content = %q", captured.Content)
	}
	if len(captured.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(captured.Embeds))
	}
	embed := captured.Embeds[0]
	if embed.Title != "EA SPORTS FIFA 21" {
		t.Errorf("title = %q", embed.Title)
	}
	if embed.Description != "Nouvelle demande de jeu" {
		t.Errorf("description = %q", embed.Description)
	}
	if embed.Color != 0x8a2be2 {
		t.Errorf("color = %#x", embed.Color)
	}
	if len(embed.Fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(embed.Fields))
	}
	if embed.Fields[0].Name != "App ID" || embed.Fields[0].Value != "1313860" {
		t.Errorf("app id field = %+v", embed.Fields[0])
	}
	if embed.Fields[1].Name != "Demandé par" || embed.Fields[1].Value != "admin@example.com" {
		t.Errorf("requester field = %+v", embed.Fields[1])
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL == "" {
		t.Error("thumbnail missing")
	}
	if embed.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestDispatchRequestSingleAttempt(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDispatcher(logger.New("test"))
	err := d.DispatchRequest(context.Background(), srv.URL, RequestNotification{AppID: 1, Title: "x", Requester: "y"})
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperr.KindUpstream {
		t.Fatalf("error = %v, want upstream kind", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("webhook called %d times, want 1", got)
	}
}
