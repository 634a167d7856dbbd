// Package request provides the game request bounded context module.
package request

import (
	"gamedrop_backend/internal/events"
	apphttp "gamedrop_backend/internal/http"
	"gamedrop_backend/internal/request/handler"
	"gamedrop_backend/internal/request/service"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
	"gamedrop_backend/platform/validator"
)

// Module is the request bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the request module with all its dependencies.
func NewModule(
	selections service.Selections,
	dispatcher service.Dispatcher,
	cfg config.WebhookConfig,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	svc := service.New(selections, dispatcher, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "request"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/requests", ctx.PublicRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
