// Package handler exposes the request module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gamedrop_backend/internal/request/service"
	"gamedrop_backend/internal/request/transport"
	"gamedrop_backend/platform/httpkit"
	"gamedrop_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for game requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new request handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers request routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
}

// Submit dispatches a game request built from a locked search selection.
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), service.SubmitInput{
		SessionID: req.SessionID,
		Requester: req.Requester,
		FormToken: req.FormToken,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Accepted(c, transport.SubmitResponse{
		Status: "dispatched",
		AppID:  result.AppID,
		Title:  result.Title,
	})
}
