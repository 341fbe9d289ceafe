package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/auth"
	"github.com/nusatech-dev/backoffice-api/internal/config"
	"github.com/nusatech-dev/backoffice-api/internal/database"
	"github.com/nusatech-dev/backoffice-api/internal/hris"
	"github.com/nusatech-dev/backoffice-api/internal/http/handler"
	"github.com/nusatech-dev/backoffice-api/internal/http/middleware"
	"github.com/nusatech-dev/backoffice-api/internal/http/router"
	"github.com/nusatech-dev/backoffice-api/internal/jobs"
	"github.com/nusatech-dev/backoffice-api/internal/logger"
	"github.com/nusatech-dev/backoffice-api/internal/repository"
	"github.com/nusatech-dev/backoffice-api/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// HRIS connection is read-only and optional, the app continues without it
	var hrisClient *hris.Client
	if cfg.HRIS.Enabled {
		hrisClient, err = hris.NewClient(&cfg.HRIS, log)
		if err != nil {
			log.Warn("HRIS connection failed, continuing without it", zap.Error(err))
		} else if hrisClient != nil {
			log.Info("HRIS connected",
				zap.Int("max_open_conns", cfg.HRIS.MaxOpenConns),
				zap.Int("query_timeout_seconds", cfg.HRIS.QueryTimeout),
			)
		}
	} else {
		log.Info("HRIS not configured, skipping")
	}

	// Repositories
	leadRepo := repository.NewLeadRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	pksRepo := repository.NewPksRepository(db)
	spkRepo := repository.NewSpkRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	siteRepo := repository.NewSiteRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Services
	numberService := service.NewNumberService(numberSequenceRepo, leadRepo, log)
	lifecycleService := service.NewLifecycleService(leadRepo, log)
	leadService := service.NewLeadService(db, leadRepo, activityRepo, numberService, log)
	quotationService := service.NewQuotationService(db, quotationRepo, leadRepo, pksRepo, siteRepo, activityRepo, numberService, log)
	pksService := service.NewPksService(db, pksRepo, leadRepo, customerRepo, entityRepo, siteRepo, activityRepo, numberService, lifecycleService, log)
	spkService := service.NewSpkService(db, spkRepo, leadRepo, pksRepo, siteRepo, activityRepo, numberService, log)
	customerService := service.NewCustomerService(customerRepo, leadRepo, pksRepo, log)
	activityService := service.NewActivityService(activityRepo, leadRepo, log)
	siteService := service.NewSiteService(siteRepo, log)
	referenceService := service.NewReferenceService(entityRepo, hrisClient, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	leadHandler := handler.NewLeadHandler(leadService, activityService, log)
	quotationHandler := handler.NewQuotationHandler(quotationService, log)
	pksHandler := handler.NewPksHandler(pksService, lifecycleService, log)
	spkHandler := handler.NewSpkHandler(spkService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	siteHandler := handler.NewSiteHandler(siteService, log)
	referenceHandler := handler.NewReferenceHandler(referenceService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		hrisClient,
		authMiddleware,
		rateLimiter,
		leadHandler,
		quotationHandler,
		pksHandler,
		spkHandler,
		customerHandler,
		siteHandler,
		referenceHandler,
	)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(&cfg.Jobs, log)
		resyncJob := jobs.NewResyncJob(lifecycleService, log)
		if err := scheduler.Register(resyncJob); err != nil {
			log.Error("Failed to register lifecycle resync job", zap.Error(err))
			scheduler = nil
		} else {
			scheduler.Start()
		}
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			scheduler.Stop()
			log.Info("Scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if hrisClient != nil {
			if err := hrisClient.Close(); err != nil {
				log.Warn("Error closing HRIS connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
