package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	fittrackmcp "github.com/meltforce/fittrack/internal/mcp"
	"github.com/meltforce/fittrack/internal/report"
	"github.com/meltforce/fittrack/internal/server"
	"github.com/meltforce/fittrack/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// historyBackend is a store that also serves the MCP data source.
type historyBackend interface {
	history.Store
	fittrackmcp.DataSource
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrationsPath := flag.String("migrations", "migrations", "path to PostgreSQL migrations")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	log.Info("fittrack starting", "version", Version, "driver", cfg.Database.Driver)

	ctx := context.Background()
	var store historyBackend

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		if *migrateOnly {
			log.Info("migrate-only: sqlite schema is created on open, exiting")
			return
		}
		s, err := history.OpenSQLite(cfg.Database.Path)
		if err != nil {
			log.Error("failed to open sqlite history", "path", cfg.Database.Path, "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
		log.Info("sqlite history opened", "path", cfg.Database.Path)

	default:
		// Run migrations
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, *migrationsPath); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		store = db
		log.Info("database connected")
	}

	locale, err := report.ParseLocale(cfg.Report.Locale)
	if err != nil {
		log.Error("invalid report locale", "error", err)
		os.Exit(1)
	}
	provider := ingest.NewProvider(store, report.New(locale), log)

	srv := server.New(store, provider, cfg.Auth.APIKey, log)

	// MCP over streamable HTTP, sharing the API key
	mcpSrv := fittrackmcp.New(store, provider, Version, log)
	srv.MountMCP(mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr)
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
