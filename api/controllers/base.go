package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Warbler/api/auth"
	"Warbler/api/cache"
	"Warbler/api/config"
	"Warbler/api/database"
	"Warbler/api/forms"
	"Warbler/api/jobs"
	"Warbler/api/mailer"
	"Warbler/api/middlewares"
	"Warbler/api/monitoring"
	"Warbler/api/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Server struct {
	DB     *gorm.DB
	Router *gin.Engine
	Config *config.Config
	Logger zerolog.Logger
	Mailer mailer.Mailer
	// Images is nil when uploads are not configured.
	Images storage.ImageStore
	Jobs   *jobs.Scheduler
}

// Initialize wires the database, cache, mailer, image store and router.
func (server *Server) Initialize(cfg *config.Config, logger zerolog.Logger) error {
	server.Config = cfg
	server.Logger = logger

	if err := auth.Configure(cfg.Auth.Secret, cfg.Auth.TokenTTL); err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, cfg.IsProduction(), logger)
	if err != nil {
		return err
	}
	server.DB = db

	if err := database.Migrate(server.DB); err != nil {
		return err
	}

	// Redis init (safe failure)
	if err := cache.Init(cfg.Redis); err != nil {
		logger.Warn().Err(err).Msg("could not connect to redis, timeline cache disabled")
	}

	server.Mailer = mailer.New(cfg.Mail, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := storage.NewS3Store(ctx, cfg.Storage)
	switch {
	case err == nil:
		server.Images = store
	case errors.Is(err, storage.ErrDisabled):
		logger.Info().Msg("image storage bucket not set, uploads disabled")
	default:
		logger.Warn().Err(err).Msg("image storage unavailable, uploads disabled")
	}

	server.Jobs = jobs.NewScheduler(server.DB, logger)

	return server.SetupRouter()
}

// SetupRouter builds the gin engine from the server's dependencies.
func (server *Server) SetupRouter() error {
	if err := forms.RegisterValidators(); err != nil {
		return err
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middlewares.RequestID(),
		middlewares.RequestLogger(server.Logger),
		monitoring.InstrumentHandler(),
		middlewares.CORSMiddleware(server.Config.Server.CORSAllowedOrigins),
		middlewares.RateLimitMiddleware(server.Config.RateLimit),
	)
	router.MaxMultipartMemory = 8 << 20

	server.Router = router
	server.initializeRoutes()
	return nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (server *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router,
		ReadTimeout:  server.Config.Server.ReadTimeout,
		WriteTimeout: server.Config.Server.WriteTimeout,
		IdleTimeout:  server.Config.Server.IdleTimeout,
	}

	if server.Jobs != nil {
		if err := server.Jobs.Start(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		server.Logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		server.Logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if server.Jobs != nil {
		server.Jobs.Stop(shutdownCtx)
	}
	if cerr := cache.Close(); cerr != nil {
		server.Logger.Warn().Err(cerr).Msg("closing redis")
	}
	if sqlDB, derr := server.DB.DB(); derr == nil {
		sqlDB.Close()
	}
	return err
}
