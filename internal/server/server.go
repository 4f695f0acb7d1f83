package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/api"
	"github.com/JustJay7/consumer-case-tracker/internal/cache"
	"github.com/JustJay7/consumer-case-tracker/internal/config"
	"github.com/JustJay7/consumer-case-tracker/internal/fallback"
	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/JustJay7/consumer-case-tracker/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxTrackedClients bounds the per-client rate limiter table
const maxTrackedClients = 10000

type Server struct {
	cfg      *config.Config
	db       *gorm.DB
	logger   *logger.Logger
	router   *gin.Engine
	gateway  *jagriti.Client
	limiters *cache.LimiterCache
}

// NewGateway builds the upstream client from configuration
func NewGateway(cfg *config.Config, store *fallback.Store, logger *logger.Logger) *jagriti.Client {
	return jagriti.New(jagriti.Options{
		BaseURL:       cfg.JagritiBaseURL,
		Referer:       cfg.JagritiReferer,
		UserAgent:     cfg.UserAgent,
		SearchTimeout: cfg.SearchTimeout,
		ListTimeout:   cfg.ListTimeout,
		Fallback:      store,
		Logger:        logger,
	})
}

func New(cfg *config.Config, db *gorm.DB, store *fallback.Store, logger *logger.Logger) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES, trusting no proxies", "error", err)
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(logger))
	router.Use(corsMiddleware())

	var limiters *cache.LimiterCache
	if cfg.APIRateLimit > 0 {
		limiters = cache.NewLimiterCache(cfg.APIRateLimit, cfg.APIRateWindow, maxTrackedClients)
		router.Use(rateLimitMiddleware(limiters, logger))
	}

	gateway := NewGateway(cfg, store, logger)

	server := &Server{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		router:   router,
		gateway:  gateway,
		limiters: limiters,
	}

	api.SetupRoutes(router, db, gateway, store, logger, cfg)

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	// searches may legitimately take up to the search timeout
	writeTimeout := s.cfg.SearchTimeout + 10*time.Second
	if writeTimeout < 30*time.Second {
		writeTimeout = 30 * time.Second
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("Failed to start server", "error", err)
		}
	}()

	s.logger.Info("Server started", "address", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.limiters != nil {
		stats := s.limiters.Stats()
		s.logger.Info("Rate limiter totals", "allowed", stats.Allowed, "rejected", stats.Rejected)
	}

	s.logger.Info("Server exited gracefully")
	return nil
}
