// Package handler exposes the search module over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gamedrop_backend/internal/search/live"
	"gamedrop_backend/internal/search/service"
	"gamedrop_backend/internal/search/transport"
	steamtransport "gamedrop_backend/internal/steam/transport"
	"gamedrop_backend/platform/httpkit"
	"gamedrop_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgSessionNotFound  = "session not found"
)

// Handler handles HTTP requests for search.
type Handler struct {
	svc  *service.Service
	live *live.Manager
	val  *validator.Validator
}

// New creates a new search handler.
func New(svc *service.Service, liveMgr *live.Manager, val *validator.Validator) *Handler {
	return &Handler{svc: svc, live: liveMgr, val: val}
}

// RegisterRoutes registers search routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Search)

	rg.POST("/sessions", h.CreateSession)
	rg.POST("/sessions/:id/input", h.SessionInput)
	rg.POST("/sessions/:id/select", h.SessionSelect)
	rg.GET("/sessions/:id/stream", h.SessionStream)
}

// Search resolves a query directly, without a session. The result list
// may be empty but the endpoint never fails on provider errors.
func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	results := h.svc.Resolve(c.Request.Context(), query)

	httpkit.OK(c, transport.SearchResponse{
		Query:   query,
		Results: results,
	})
}

// CreateSession opens a live search session.
func (h *Handler) CreateSession(c *gin.Context) {
	id := h.live.Create()
	c.JSON(http.StatusCreated, transport.CreateSessionResponse{SessionID: id})
}

// SessionInput feeds a text edit into a session.
func (h *Handler) SessionInput(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req transport.SessionInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if !h.live.Input(id, req.Text) {
		httpkit.Error(c, http.StatusNotFound, msgSessionNotFound, nil)
		return
	}
	httpkit.Accepted(c, gin.H{"status": "accepted"})
}

// SessionSelect confirms a candidate in a session.
func (h *Handler) SessionSelect(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	var req transport.SessionSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	candidate := steamtransport.Candidate{
		AppID:    req.AppID,
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}
	if candidate.ImageURL == "" {
		candidate.ImageURL = steamtransport.HeaderImageURL(candidate.AppID)
	}

	if !h.live.Select(id, candidate) {
		httpkit.Error(c, http.StatusNotFound, msgSessionNotFound, nil)
		return
	}
	httpkit.OK(c, gin.H{"status": "locked"})
}

// SessionStream streams a session's state frames over SSE.
func (h *Handler) SessionStream(c *gin.Context) {
	id, ok := parseSessionID(c)
	if !ok {
		return
	}

	frames, found := h.live.Frames(id)
	if !found {
		httpkit.Error(c, http.StatusNotFound, msgSessionNotFound, nil)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"sessionId": id})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	for {
		select {
		case <-clientGone:
			return
		case frame, open := <-frames:
			if !open {
				return
			}
			data, _ := json.Marshal(frame)
			c.SSEvent(string(frame.Type), string(data))
			c.Writer.Flush()
		}
	}
}

func parseSessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
