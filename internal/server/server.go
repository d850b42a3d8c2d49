package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conspect-web/internal/auth"
	"conspect-web/internal/backend"
	"conspect-web/internal/config"
	"conspect-web/internal/data"
	"conspect-web/internal/jobs"
	"conspect-web/internal/metrics"
	"conspect-web/internal/middlewares"
	"conspect-web/internal/upload"
	"conspect-web/internal/version"
	"conspect-web/internal/web"

	"github.com/prometheus/client_golang/prometheus"
	versioncollector "github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/redis/go-redis/extra/redisprometheus/v9"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	cfg         *config.Config
	logger      *slog.Logger
	appCtx      *middlewares.AppContext
	httpServer  *http.Server
	debugServer *http.Server
	jobManager  *jobs.JobManager
	cancel      context.CancelFunc
}

func New(cfg *config.Config) (*Server, error) {
	logger := setupLogger(cfg)
	logger.Info("Starting conspect-web", "build", version.Info())

	ctx, cancel := context.WithCancel(context.Background())

	sessionManager, err := auth.NewSessionManager(logger, cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	if client := sessionManager.RedisClient(); client != nil {
		registerRedisCollector(cfg, logger, "sessions", client)
	}

	backendClient, err := backend.NewClient(cfg.Backend, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create backend client: %w", err)
	}

	relay := upload.NewRelay(backendClient, upload.LimitsFromConfig(cfg.Upload), logger)

	loginProvider, err := auth.NewLoginProvider(ctx, cfg.Auth, backendClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to set up login: %w", err)
	}

	pages, err := web.NewRenderer()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	rateLimiter, err := setupRateLimiter(cfg, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	appCtx := middlewares.NewAppContext(ctx, cfg, logger, sessionManager, loginProvider, relay, rateLimiter, pages)

	jobManager := jobs.NewJobManager(logger)
	jobManager.Register(jobs.NewBackendProbeJob(backendClient, cfg.Jobs.BackendProbeInterval, logger))
	if memLimiter, ok := rateLimiter.(*data.MemLimiter); ok && cfg.RateLimit.Enabled {
		jobManager.Register(jobs.NewRateLimitSweepJob(memLimiter, cfg.Jobs.RateLimitSweep, logger))
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           setupRouter(appCtx),
		ReadHeaderTimeout: 30 * time.Second,
	}

	var debugServer *http.Server
	if debugEnabled(cfg) {
		if err := prometheus.Register(versioncollector.NewCollector(metrics.Namespace)); err != nil {
			logger.Debug("failed to register build info collector: already registered", "error", err)
		}
		debugServer = &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Debug.Host, cfg.Server.Debug.Port),
			Handler:           setupDebugRouter(),
			ReadHeaderTimeout: 30 * time.Second,
		}
	}

	return &Server{
		cfg:         cfg,
		logger:      logger,
		appCtx:      appCtx,
		httpServer:  httpServer,
		debugServer: debugServer,
		jobManager:  jobManager,
		cancel:      cancel,
	}, nil
}

// Start serves until SIGINT/SIGTERM or a listener failure, then drains in-flight requests.
func (s *Server) Start() error {
	s.jobManager.Start(s.appCtx)

	go func() {
		s.logger.Info("Server Started", "port", s.cfg.Server.Port, "backend", s.cfg.Backend.URL, "auth_mode", s.cfg.Auth.Mode)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed to start", "error", err)
			s.cancel()
		}
	}()

	if s.debugServer != nil {
		go func() {
			s.logger.Info("Metrics server starting", "address", s.debugServer.Addr)
			if err := s.debugServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("Metrics server failed to start", "error", err)
				s.cancel()
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		s.logger.Info("Shutdown signal received")
	case <-s.appCtx.Done():
		s.logger.Info("Context canceled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("Shutting Down Server")

	s.cancel()
	s.jobManager.Shutdown(shutdownCtx)

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return err
	}

	if s.debugServer != nil {
		if err := s.debugServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Debug server forced to shutdown", "error", err)
		}
	}

	s.logger.Info("Server Exited")
	return nil
}

func setupRateLimiter(cfg *config.Config, logger *slog.Logger) (data.RateLimitProvider, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	var client *redis.Client
	if cfg.RateLimit.Store == metrics.RateLimitStoreRedis {
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis rate limit store requires a redis config section")
		}
		var err error
		client, err = data.NewRedisClient(cfg.Redis, cfg.Redis.RateLimitIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect rate limit store: %w", err)
		}
		registerRedisCollector(cfg, logger, "ratelimit", client)
	}

	var redisClient data.RedisRateLimitClient
	if client != nil {
		redisClient = client
	}

	limiter, err := data.NewRateLimitProvider(cfg.RateLimit, redisClient, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("rate limiting enabled", "store", limiter.Name(), "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	return limiter, nil
}

func registerRedisCollector(cfg *config.Config, logger *slog.Logger, name string, client *redis.Client) {
	if !debugEnabled(cfg) {
		return
	}

	collector := redisprometheus.NewCollector(metrics.Namespace, name, client)
	if err := prometheus.Register(collector); err != nil {
		logger.Debug("failed to register redis collector: already registered", "name", name, "error", err)
	}
}

func debugEnabled(cfg *config.Config) bool {
	return cfg.Server.Debug != nil && cfg.Server.Debug.Enabled
}
