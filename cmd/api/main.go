package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/hirelane/hirelane-api/internal/config"
	"github.com/hirelane/hirelane-api/internal/domain/featured"
	"github.com/hirelane/hirelane-api/internal/domain/job"
	"github.com/hirelane/hirelane-api/internal/middleware"
	"github.com/hirelane/hirelane-api/internal/pkg/database"
	"github.com/hirelane/hirelane-api/internal/pkg/jwt"
	"github.com/hirelane/hirelane-api/internal/pkg/logger"
	pkgresponse "github.com/hirelane/hirelane-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Hirelane API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	jobRepo := job.NewRepository(db)
	featuredRepo := featured.NewRepository(db)

	// ---------- Services ----------
	pricing := featured.DefaultPricingConfig()
	if cfg.FeaturedBasePrice > 0 {
		pricing.BasePrice = cfg.FeaturedBasePrice
	}
	if cfg.FeaturedCurrency != "" {
		pricing.Currency = cfg.FeaturedCurrency
	}
	if tiers := featured.ParseDiscountTiers(cfg.FeaturedDiscountTiers); tiers != nil {
		pricing.Tiers = tiers
	}

	featuredResources := &featuredJobAdapter{repo: jobRepo}
	featuredService := featured.NewService(db, featuredRepo, featuredResources, pricing, featured.Config{
		DefaultGrantDays: cfg.FeaturedDefaultGrantDays,
	}, redis)

	// ---------- Background workers ----------
	sweeper := featured.NewWorker(featuredService, redis, cfg.FeaturedSweepInterval)
	sweeper.Start()

	// ---------- Handlers ----------
	jobHandler := job.NewHandler(jobRepo)
	featuredHandler := featured.NewHandler(featuredService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/jobs", jobHandler.Routes(authMiddleware))
		r.Mount("/featured", featuredHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// featuredJobAdapter adapts job.Repository to featured.ResourceStore.
// IsFeatured reflects the raw flag, not the time window, so grants whose
// window already lapsed can still be released.
type featuredJobAdapter struct {
	repo *job.Repository
}

func (a *featuredJobAdapter) GetFeatureState(ctx context.Context, id uuid.UUID) (*featured.ResourceState, error) {
	state, err := a.repo.GetFeatureState(ctx, id)
	if errors.Is(err, job.ErrJobNotFound) {
		return nil, featured.ErrResourceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &featured.ResourceState{
		ID:                state.ID,
		IsFeatured:        state.IsFeatured,
		FeaturedPackageID: state.FeaturedPackageID,
	}, nil
}

func (a *featuredJobAdapter) SetFeaturedTx(ctx context.Context, tx *sqlx.Tx, id, packageID uuid.UUID, until time.Time) error {
	err := a.repo.SetFeaturedTx(ctx, tx, id, packageID, until)
	if errors.Is(err, job.ErrJobNotFound) {
		return featured.ErrResourceNotFound
	}
	if errors.Is(err, job.ErrAlreadyFeatured) {
		return featured.ErrAlreadyFeatured
	}
	return err
}

func (a *featuredJobAdapter) ClearFeaturedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	err := a.repo.ClearFeaturedTx(ctx, tx, id)
	if errors.Is(err, job.ErrJobNotFound) {
		return featured.ErrResourceNotFound
	}
	return err
}
