package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/config"
	"github.com/openwebindex/searchd/internal/db"
	dbRedis "github.com/openwebindex/searchd/internal/db/redis"
	"github.com/openwebindex/searchd/internal/domain"
	logpkg "github.com/openwebindex/searchd/internal/logger"
	"github.com/openwebindex/searchd/internal/metrics"
	"github.com/openwebindex/searchd/internal/repository/embcache"
	enginerepo "github.com/openwebindex/searchd/internal/repository/engine"
	metarepo "github.com/openwebindex/searchd/internal/repository/metadata"
	chiTransport "github.com/openwebindex/searchd/internal/transport/chi"
	"github.com/openwebindex/searchd/internal/transport/embedhttp"
	openaiEmb "github.com/openwebindex/searchd/internal/transport/openai"
	embeddinguc "github.com/openwebindex/searchd/internal/usecase/embedding"
	healthuc "github.com/openwebindex/searchd/internal/usecase/health"
	searchuc "github.com/openwebindex/searchd/internal/usecase/search"
	"github.com/openwebindex/searchd/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting searchd API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create engine store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Engine store not ready", zap.Error(err))
	}
	logger.Info("Connected to engine store")

	// Register embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()

	// Load the per-index metadata catalog into memory.
	catalog, err := metarepo.Load(cfg.Metadata.Dir, logger)
	if err != nil {
		logger.Fatal("Failed to load metadata catalog", zap.Error(err))
	}
	logger.Info("Metadata catalog loaded", zap.Strings("indexes", catalog.Indexes()))

	engine, err := enginerepo.New(ctx, store,
		enginerepo.WithIdentifierField(cfg.Search.IdentifierField))
	if err != nil {
		logger.Fatal("Failed to load engine indexes", zap.Error(err))
	}
	logger.Info("Engine indexes loaded", zap.Strings("indexes", engine.Indexes()))

	embedder := buildEmbedder(cfg, store, logger)

	searchSvc := searchuc.New(engine, catalog, embedder).
		WithCandidateWindow(cfg.Metadata.CandidateWindow)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(
		searchSvc, healthSvc, cfg.Search.DefaultIndex, cfg.Search.DefaultLimit, logger)

	r := chi.NewRouter()
	r.Use(recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: provider -> persistent cache -> memo.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	var base domain.Embedder
	switch cfg.Embedding.Provider {
	case "openai":
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Embedding.OpenAI.APIKey,
			BaseURL:    cfg.Embedding.OpenAI.BaseURL,
			Model:      cfg.Embedding.OpenAI.Model,
			Dimensions: cfg.Embedding.OpenAI.Dimensions,
		})
	default:
		base = embedhttp.NewClient(&embedhttp.Config{
			BaseURL: cfg.Embedding.Sentence.BaseURL,
			Timeout: time.Duration(cfg.Embedding.Sentence.TimeoutMS) * time.Millisecond,
			Logger:  logger,
		})
	}

	embedder := base
	if cfg.Embedding.Cache.Persistent {
		ttl := time.Duration(cfg.Embedding.Cache.TTLHours) * time.Hour
		embedder = embcache.New(embedder, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	// Memo tier is always on: the candidate ranking embeds the same catalog
	// texts on every request.
	return embeddinguc.New(embedder,
		embeddinguc.WithMaxEntries(cfg.Embedding.Cache.MaxEntries))
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// recoverer is a recovery middleware that returns a plain-text 500 instead
// of a stacktrace.
func recoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "text/plain; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte("Internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
