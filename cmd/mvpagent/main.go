// Command mvpagent runs the MVP generation agent: an HTTP service that
// validates product features through an LLM provider, estimates effort, and
// assembles MVP definitions.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/mvpagent/mvpagent/infrastructure/llm"
	"github.com/mvpagent/mvpagent/infrastructure/metrics"
	"github.com/mvpagent/mvpagent/internal/config"
	"github.com/mvpagent/mvpagent/internal/estimation"
	"github.com/mvpagent/mvpagent/internal/handlers"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/mvp"
	"github.com/mvpagent/mvpagent/internal/ports"
	"github.com/mvpagent/mvpagent/internal/server"
	"github.com/mvpagent/mvpagent/internal/storage"
	"github.com/mvpagent/mvpagent/internal/validation"
)

const shutdownGrace = 10 * time.Second

// Gateway-level rate limiting toward the provider.
const (
	providerRequestsPerSecond = 5
	providerBurst             = 10
)

func main() {
	bootLog, err := logger.New(config.GetEnv("LOG_MODE", "development", nil))
	if err != nil {
		os.Exit(1)
	}

	if err := run(bootLog); err != nil {
		bootLog.Fatal("startup failed", "error", err)
	}
}

func run(log *logger.Logger) error {
	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	if cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.NewPrometheusMetrics(prometheus.DefaultRegisterer)

	client, err := llm.NewClient(cfg.Provider, llm.ClientConfig{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		MockMode: cfg.MockMode,
		// Retry wraps timeout so the deadline applies per attempt: a timed-out
		// attempt surfaces to the retry layer with the parent context still
		// live, and the next attempt gets a fresh deadline.
		Middleware: []llm.Middleware{
			llm.RetryMiddleware(llm.DefaultRetryPolicy()),
			llm.TimeoutMiddleware(time.Duration(cfg.TimeoutSeconds) * time.Second),
			llm.RateLimitMiddleware(rate.Limit(providerRequestsPerSecond), providerBurst),
			llm.MetricsMiddleware(collector),
			llm.TracingMiddleware("mvpagent"),
		},
	})
	if err != nil {
		return err
	}
	log.Info("model gateway ready",
		"provider", cfg.Provider,
		"model", client.GetModel(),
		"mock_mode", cfg.MockMode,
	)

	projects, features, err := openStores(cfg, log)
	if err != nil {
		return err
	}

	validator := validation.NewValidator(
		client,
		validation.NewLRUCache(cfg.CacheCapacity),
		log,
		collector,
	)
	estimator := estimation.NewEstimator(log)
	generator := mvp.NewGenerator(estimator, log)

	router := server.NewRouter(server.RouterConfig{
		Validation:  handlers.NewValidationHandler(validator, log),
		Projects:    handlers.NewProjectHandler(projects, features, validator, estimator, generator, log),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(ctx)
}

// openStores builds the persistence layer the configuration asks for:
// gorm-backed stores for sqlite and postgres, or the non-persistent
// in-memory stores.
func openStores(cfg config.Config, log *logger.Logger) (ports.ProjectStore, ports.FeatureStore, error) {
	if cfg.DBDriver == "memory" {
		log.Warn("using in-memory stores; data is lost on restart")
		features := storage.NewMemoryFeatureStore()
		return storage.NewMemoryProjectStore(features), features, nil
	}

	db, err := storage.Open(cfg.DBDriver, cfg.DatabaseURL, log)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewGormProjectStore(db), storage.NewGormFeatureStore(db), nil
}
