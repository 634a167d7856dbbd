// Package catalog provides the catalog bounded context module.
package catalog

import (
	"gamedrop_backend/internal/catalog/handler"
	"gamedrop_backend/internal/catalog/repository"
	"gamedrop_backend/internal/catalog/service"
	"gamedrop_backend/internal/events"
	apphttp "gamedrop_backend/internal/http"
	"gamedrop_backend/platform/logger"
	"gamedrop_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module with all its dependencies.
func NewModule(
	pool *pgxpool.Pool,
	selections service.Selections,
	enricher service.Enricher,
	shortener service.Shortener,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, selections, enricher, shortener, eventBus, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	publicGroup := ctx.V1.Group("/catalog", ctx.PublicRateLimiter.RateLimit())
	m.handler.RegisterPublicRoutes(publicGroup)

	adminGroup := ctx.Admin.Group("/catalog")
	m.handler.RegisterAdminRoutes(adminGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
