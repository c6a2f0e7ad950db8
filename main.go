// ABOUTME: Entry point for the Tranquil dashboard gateway
// ABOUTME: Wires config, session registry, cache, and the HTTP route table

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/cache"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/config"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/handlers"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/logger"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/middleware"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/services"
	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/session"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	authMode, err := middleware.ValidateAuthMode(cfg.AuthMode)
	if err != nil {
		slog.Error("Invalid auth mode", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Tranquil Dashboard Gateway")
	slog.Info("Upstream API configured", "url", cfg.APIBaseURL)
	slog.Info("Auth mode", "mode", authMode)

	// Session store: Redis when configured, otherwise the local file store
	var store session.Store
	if cfg.RedisConfigured() {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("Redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		store = session.NewRedisStore(client)
		slog.Info("Session store: redis", "addr", cfg.RedisAddr)
	} else {
		store = session.NewFileStore(cfg.SessionFile)
		slog.Info("Session store: file", "path", cfg.SessionFile)
	}

	// Upstream client and session registry
	api := services.NewAPIClient(cfg.APIBaseURL, time.Duration(cfg.UpstreamTimeout)*time.Second)
	registry := session.NewRegistry(api, store, session.Options{
		TokenTTL:      time.Duration(cfg.TokenTTL) * time.Second,
		RefreshMargin: time.Duration(cfg.RefreshMargin) * time.Second,
	})

	// One-time bootstrap: adopt persisted sessions, refreshing or arming each
	if err := registry.Restore(context.Background()); err != nil {
		slog.Error("Session restore failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Sessions restored", "count", registry.Len())

	// Initialize cache
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c, api, registry)

	// Per-route middleware: authentication plus the endpoint-class limiters
	authn := middleware.Auth(middleware.AuthConfig{
		Mode:      authMode,
		Validator: registry.Validate,
	})
	var limitAuth, limitRefresh, limitWrite, limitDefault func(http.HandlerFunc) http.HandlerFunc
	if cfg.RateLimitEnabled {
		window := time.Minute
		limitAuth = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitAuth, window), middleware.ClientIP)
		limitRefresh = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRefresh, window), middleware.SessionKey)
		limitWrite = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitWrite, window), middleware.UserOrIP)
		limitDefault = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitDefault, window), middleware.ClientIP)
		slog.Info("Rate limiting enabled",
			"auth", cfg.RateLimitAuth, "refresh", cfg.RateLimitRefresh,
			"write", cfg.RateLimitWrite, "default", cfg.RateLimitDefault)
	} else {
		noop := middleware.RateLimit(nil, nil)
		limitAuth, limitRefresh, limitWrite, limitDefault = noop, noop, noop, noop
		slog.Warn("Rate limiting disabled")
	}

	// Register routes; global middleware wraps every endpoint
	mux := http.NewServeMux()
	for _, route := range h.Routes(handlers.RouteMiddleware{
		Authn:        authn,
		LimitAuth:    limitAuth,
		LimitRefresh: limitRefresh,
		LimitWrite:   limitWrite,
	}) {
		handler := middleware.Chain(route.Handler,
			middleware.LogRequest,
			middleware.CORS(cfg.CORSAllowedOrigins),
			middleware.CSRF(),
			limitDefault,
		)
		mux.HandleFunc(route.Method+" "+route.Path, handler)
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
