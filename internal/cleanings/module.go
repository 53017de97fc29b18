// Package cleanings provides the cleaning diagnostics domain module.
package cleanings

import (
	"stayclean_backend/internal/cleanings/handler"
	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/service"
	apphttp "stayclean_backend/internal/http"
	"stayclean_backend/platform/config"
	"stayclean_backend/platform/logger"
	"stayclean_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the cleanings domain module
type Module struct {
	handler *handler.Handler
	Service *service.Service
}

// NewModule creates a new cleanings module with all dependencies wired
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg config.AttentionConfig, log *logger.Logger) (*Module, error) {
	reasons, err := service.LoadReasonTable(cfg.GetReasonTablePath())
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	svc := service.New(repo, reasons, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		Service: svc,
	}, nil
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "cleanings"
}

// RegisterRoutes registers the module's routes under the protected API group
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterCleaningRoutes(ctx.Protected.Group("/cleanings"))
	m.handler.RegisterPropertyRoutes(ctx.Protected.Group("/properties"))
	m.handler.RegisterReservationRoutes(ctx.Protected.Group("/reservations"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
