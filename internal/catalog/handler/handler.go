// Package handler exposes the catalog module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gamedrop_backend/internal/catalog/repository"
	"gamedrop_backend/internal/catalog/service"
	"gamedrop_backend/internal/catalog/transport"
	"gamedrop_backend/platform/httpkit"
	"gamedrop_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the anonymous catalog routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/entries", h.List)
	rg.GET("/entries/:id", h.Get)
}

// RegisterAdminRoutes registers the admin-only catalog routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/entries", h.AddEntry)
	rg.DELETE("/entries/:id", h.Delete)
}

// List returns the public catalog, newest first.
func (h *Handler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ListEntriesResponse{
		Entries: make([]transport.EntryResponse, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	httpkit.OK(c, resp)
}

// AddEntry ingests a new catalog entry from a locked search selection.
func (h *Handler) AddEntry(c *gin.Context) {
	var req transport.AddEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	email, _ := httpkit.GetEmail(c)
	entry, err := h.svc.AddEntry(c.Request.Context(), service.AddEntryInput{
		SessionID:   req.SessionID,
		DownloadURL: req.DownloadURL,
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Multiplayer: req.Multiplayer,
		Torrent:     req.Torrent,
		FormToken:   req.FormToken,
		AddedBy:     email,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, toEntryResponse(entry))
}

// Get returns a single catalog entry.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toEntryResponse(entry))
}

// Delete removes a catalog entry.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

func toEntryResponse(e repository.Entry) transport.EntryResponse {
	return transport.EntryResponse{
		ID:          e.ID,
		AppID:       e.AppID,
		Title:       e.Title,
		ImageURL:    e.ImageURL,
		DownloadURL: e.DownloadURL,
		Multiplayer: e.Multiplayer,
		Torrent:     e.Torrent,
		Summary:     e.Summary,
		ReleaseDate: e.ReleaseDate,
		Developers:  e.Developers,
		Publishers:  e.Publishers,
		Genres:      e.Genres,
		Platforms:   e.Platforms,
		AddedBy:     e.AddedBy,
		CreatedAt:   e.CreatedAt,
	}
}
