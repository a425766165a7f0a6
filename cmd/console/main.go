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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrconsole/internal/api"
	"hrconsole/internal/console"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/platform/health"
	"hrconsole/internal/platform/httpserver"
	"hrconsole/internal/platform/logger"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/platform/middleware"
	"hrconsole/internal/platform/tracer"
	"hrconsole/internal/session"
	"hrconsole/internal/tokenstore"
)

const maxBodyBytes = 10 << 20

func main() {
	os.Exit(serve())
}

// serve wires the backend client, the session and the console pages, then
// serves until interrupted. It returns the process exit code once every
// resource it opened has been released.
func serve() int {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	log.Info("initializing hr console",
		"addr", cfg.ConsoleAddr,
		"api_url", cfg.APIURL,
		"token_store", cfg.TokenStore,
		"environment", cfg.Environment,
	)

	ctx := context.Background()
	store, redisClient, err := tokenstore.Open(ctx, cfg)
	if err != nil {
		log.Error("failed to open token store", "error", err)
		return 1
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis client", "error", err)
			}
		}()
		prometheus.MustRegister(redisClient.PoolCollector())
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	client := api.New(cfg.APIURL, store,
		api.WithTimeout(cfg.APITimeout),
		api.WithLogger(log),
		api.WithMetrics(m),
		api.WithTracer(tracer.NewOTel()),
	)

	sess := session.New(client.Auth(), store,
		session.WithNavigator(console.NewNavigator()),
		session.WithLogger(log),
		session.WithMetrics(m),
	)
	initCtx, cancelInit := context.WithTimeout(ctx, cfg.APITimeout+5*time.Second)
	state := sess.Init(initCtx)
	cancelInit()
	log.Info("session initialized", "state", state.String())

	pages, err := console.New(console.Config{
		Session:        sess,
		Employees:      client.Employees(),
		Analytics:      client.Analytics(),
		Predictions:    client.Predictions(),
		Logger:         log,
		Metrics:        m,
		ListLimit:      cfg.EmployeeListLimit,
		HistoryLimit:   cfg.HistoryLimit,
		MaxUploadBytes: maxBodyBytes,
	})
	if err != nil {
		log.Error("failed to load console templates", "error", err)
		return 1
	}

	checks := health.New(cfg.Environment)
	checks.RegisterCheck("backend", client.Ping)
	if redisClient != nil {
		checks.RegisterCheck("token_store", redisClient.Health)
	} else {
		checks.RegisterCheck("token_store", func(ctx context.Context) error {
			_, err := store.Load(ctx)
			return err
		})
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	checks.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	pages.Register(r)

	srv := httpserver.New(cfg.ConsoleAddr, r)

	log.Info("starting http server", "addr", cfg.ConsoleAddr)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		log.Error("server error", "error", err)
		return 1
	case <-quit:
	}

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return 1
	}

	log.Info("server stopped")
	return 0
}
