// Package search provides the catalog search bounded context module.
package search

import (
	apphttp "gamedrop_backend/internal/http"
	"gamedrop_backend/internal/search/cache"
	"gamedrop_backend/internal/search/handler"
	"gamedrop_backend/internal/search/live"
	"gamedrop_backend/internal/search/service"
	"gamedrop_backend/platform/config"
	"gamedrop_backend/platform/logger"
	"gamedrop_backend/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the search bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	live    *live.Manager
}

// NewModule creates and initializes the search module with all its dependencies.
// When the snapshot cache is disabled the resolver fetches the catalog
// snapshot fresh on every fallback.
func NewModule(
	provider service.Provider,
	searchCfg config.SearchConfig,
	acCfg config.AutocompleteConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	var snapshotCache service.SnapshotCache
	if searchCfg.IsSnapshotCacheEnabled() {
		rdb := redis.NewClient(&redis.Options{Addr: searchCfg.GetRedisAddr()})
		snapshotCache = cache.NewSnapshot(rdb, searchCfg.GetSnapshotTTL(), log)
	}

	svc := service.New(provider, snapshotCache, log)
	liveMgr := live.NewManager(acCfg.GetDebounceDelay(), acCfg.GetSessionIdleTTL(), svc.Resolve, log)
	h := handler.New(svc, liveMgr, val)

	return &Module{handler: h, service: svc, live: liveMgr}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "search"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Sessions returns the live session manager for external use.
func (m *Module) Sessions() *live.Manager {
	return m.live
}

// Close stops the live session manager.
func (m *Module) Close() {
	m.live.Close()
}

// RegisterRoutes mounts search routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/search", ctx.PublicRateLimiter.RateLimit())
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
