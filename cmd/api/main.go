package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisok6893-rgb/fitmatch/internal/config"
	httpapi "github.com/denisok6893-rgb/fitmatch/internal/http"
	"github.com/denisok6893-rgb/fitmatch/internal/logging"
	"github.com/denisok6893-rgb/fitmatch/internal/matching"
	"github.com/denisok6893-rgb/fitmatch/internal/metrics"
	"github.com/denisok6893-rgb/fitmatch/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, closeCatalog, err := storage.OpenCatalog(ctx, cfg.DBDriver, cfg.DBDSN, cfg.ExercisesPath)
	if err != nil {
		logger.Error("open catalog", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closeCatalog() }()

	rules, err := matching.LoadRulesFromFile(cfg.RulesPath)
	if err != nil {
		logger.Warn("use default rules", "reason", err)
	}

	m := metrics.NewMetrics()
	if all, err := catalog.ListExercises(ctx); err == nil {
		m.CatalogSize.Set(float64(len(all)))
	}

	rec := matching.NewRecommender(catalog, matching.NewEngine(rules),
		matching.WithMetrics(m),
		matching.WithLogger(logger),
	)
	srv := httpapi.NewServer(rec, catalog, m, logger)

	httpSrv := &http.Server{
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Error("listen", "address", cfg.Address, "error", err)
		_ = closeCatalog()
		os.Exit(1)
	}

	logger.Info("API listening", "address", ln.Addr().String())
	if err := serve(ctx, httpSrv, ln); err != nil {
		logger.Error("server error", "error", err)
		_ = closeCatalog()
		os.Exit(1)
	}
	logger.Info("server stopped")
}

const shutdownTimeout = 10 * time.Second

// serve runs srv on ln until ctx is done. It returns only after Shutdown has
// drained in-flight requests, so callers may release what handlers use.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownDone
}
