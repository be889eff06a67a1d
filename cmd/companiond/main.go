// Package main is the entry point for companiond, the offline-first sync
// daemon. It owns the local SQLite cache, watches connectivity, runs the
// reconciliation scheduler, and exposes a small localhost API for status
// and on-demand sync.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bidpaifusion/travelmate/internal/config"
	"github.com/bidpaifusion/travelmate/internal/connectivity"
	"github.com/bidpaifusion/travelmate/internal/gateway"
	"github.com/bidpaifusion/travelmate/internal/middleware"
	"github.com/bidpaifusion/travelmate/internal/scheduler"
	"github.com/bidpaifusion/travelmate/internal/store"
	syncengine "github.com/bidpaifusion/travelmate/internal/sync"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadCompanion()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Local cache ------------------------------------------------------
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open local cache", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("local cache ready", "path", cfg.DBPath)

	// --- Connectivity -----------------------------------------------------
	probeAddr, err := probeAddress(cfg.ServerURL)
	if err != nil {
		slog.Error("invalid SERVER_URL", "url", cfg.ServerURL, "error", err)
		os.Exit(1)
	}
	monitor := connectivity.NewMonitor(
		connectivity.Dial(probeAddr, 3*time.Second),
		cfg.ProbeInterval,
		logger,
	)

	// --- Engine and scheduler ---------------------------------------------
	client := gateway.NewClient(cfg.ServerURL)
	engine := syncengine.NewEngine(db, client, monitor, logger)

	sched := scheduler.New(engine, monitor, scheduler.Config{
		Interval: cfg.SyncInterval,
		Token:    func() string { return cfg.AuthToken },
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go monitor.Run(ctx)
	go sched.Run(ctx)

	// Kick a cycle as soon as connectivity comes up so offline edits do not
	// wait for the next periodic tick.
	go func() {
		ch, unsubscribe := monitor.Subscribe()
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case online, ok := <-ch:
				if !ok {
					return
				}
				if online {
					sched.SyncNow()
				}
			}
		}
	}()

	// --- Status API -------------------------------------------------------
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Online bool             `json:"online"`
			Sync   scheduler.Status `json:"sync"`
		}{
			Online: monitor.IsOnline(),
			Sync:   sched.Status(),
		})
	})
	r.Post("/sync", func(w http.ResponseWriter, _ *http.Request) {
		sched.SyncNow()
		w.WriteHeader(http.StatusAccepted)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         cfg.StatusAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("status API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status API error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("stopped")
}

// probeAddress derives the host:port the connectivity probe dials from the
// server base URL, filling in the scheme's default port when absent.
func probeAddress(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", errors.New("no host in URL")
	}
	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(host, port), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
