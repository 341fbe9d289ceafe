package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nusatech-dev/backoffice-api/internal/auth"
	"github.com/nusatech-dev/backoffice-api/internal/config"
	"github.com/nusatech-dev/backoffice-api/internal/database"
	"github.com/nusatech-dev/backoffice-api/internal/hris"
	"github.com/nusatech-dev/backoffice-api/internal/http/handler"
	"github.com/nusatech-dev/backoffice-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	hrisClient       *hris.Client
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	leadHandler      *handler.LeadHandler
	quotationHandler *handler.QuotationHandler
	pksHandler       *handler.PksHandler
	spkHandler       *handler.SpkHandler
	customerHandler  *handler.CustomerHandler
	siteHandler      *handler.SiteHandler
	referenceHandler *handler.ReferenceHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	hrisClient *hris.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	leadHandler *handler.LeadHandler,
	quotationHandler *handler.QuotationHandler,
	pksHandler *handler.PksHandler,
	spkHandler *handler.SpkHandler,
	customerHandler *handler.CustomerHandler,
	siteHandler *handler.SiteHandler,
	referenceHandler *handler.ReferenceHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		hrisClient:       hrisClient,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		leadHandler:      leadHandler,
		quotationHandler: quotationHandler,
		pksHandler:       pksHandler,
		spkHandler:       spkHandler,
		customerHandler:  customerHandler,
		siteHandler:      siteHandler,
		referenceHandler: referenceHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// HRIS is an optional dependency, report but never fail readiness
		if rt.hrisClient.IsEnabled() {
			if err := rt.hrisClient.HealthCheck(r.Context()); err != nil {
				checks["hris"] = map[string]interface{}{
					"status": "unhealthy",
					"error":  err.Error,
				}
			} else {
				checks["hris"] = map[string]interface{}{
					"status": "healthy",
				}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.Post("/", rt.leadHandler.Create)
				r.Post("/bulk-assign", rt.leadHandler.BulkAssign)
				r.Get("/{id}", rt.leadHandler.Get)
				r.Put("/{id}", rt.leadHandler.Update)
				r.Delete("/{id}", rt.leadHandler.Delete)
				r.Put("/{id}/status", rt.leadHandler.UpdateStatus)
				r.Put("/{id}/assign", rt.leadHandler.AssignTeam)
				r.Get("/{id}/activities", rt.leadHandler.Activities)
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.List)
				r.Post("/", rt.quotationHandler.Create)
				r.Get("/{id}", rt.quotationHandler.Get)
				r.Put("/{id}", rt.quotationHandler.Update)
				r.Delete("/{id}", rt.quotationHandler.Delete)
				r.Post("/{id}/approve", rt.quotationHandler.Approve)
			})

			// PKS contracts
			r.Route("/pks", func(r chi.Router) {
				r.Get("/", rt.pksHandler.List)
				r.Post("/", rt.pksHandler.Create)
				r.Get("/expiring", rt.pksHandler.Expiring)
				r.Post("/resync", rt.pksHandler.Resync)
				r.Get("/{id}", rt.pksHandler.Get)
				r.Put("/{id}", rt.pksHandler.Update)
				r.Delete("/{id}", rt.pksHandler.Delete)
				r.Post("/{id}/approve", rt.pksHandler.Approve)
				r.Post("/{id}/reject", rt.pksHandler.Reject)
				r.Post("/{id}/activate", rt.pksHandler.Activate)
			})

			// SPK work orders
			r.Route("/spk", func(r chi.Router) {
				r.Get("/", rt.spkHandler.List)
				r.Post("/", rt.spkHandler.Create)
				r.Get("/{id}", rt.spkHandler.Get)
				r.Put("/{id}", rt.spkHandler.Update)
				r.Delete("/{id}", rt.spkHandler.Delete)
			})

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Get("/{id}", rt.customerHandler.Get)
				r.Get("/{id}/contracts", rt.customerHandler.Contracts)
			})

			// Sites
			r.Route("/sites", func(r chi.Router) {
				r.Get("/", rt.siteHandler.List)
				r.Post("/", rt.siteHandler.Create)
				r.Get("/{id}", rt.siteHandler.Get)
				r.Put("/{id}", rt.siteHandler.Update)
				r.Delete("/{id}", rt.siteHandler.Delete)
			})

			// Reference data
			r.Get("/reference/entities", rt.referenceHandler.Entities)
			r.Get("/reference/sales-teams", rt.referenceHandler.SalesTeams)
		})
	})

	return r
}
