package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jdelgadoc/funnelboard-go/internal/config"
	"github.com/jdelgadoc/funnelboard-go/internal/dashboard"
	"github.com/jdelgadoc/funnelboard-go/internal/httpx"
	"github.com/jdelgadoc/funnelboard-go/internal/ingest"
	"github.com/jdelgadoc/funnelboard-go/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	syncer := ingest.NewSync(cl, st, logger, cfg)
	svc := dashboard.NewService(st, time.Now)

	r := httpx.NewRouter(logger, svc, syncer, st, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
