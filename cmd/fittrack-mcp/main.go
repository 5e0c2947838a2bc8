package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	fittrackmcp "github.com/meltforce/fittrack/internal/mcp"
	"github.com/meltforce/fittrack/internal/report"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("url", "", "fittrack server URL; empty computes and stores locally")
	apiKey := flag.String("api-key", os.Getenv("FITTRACK_API_KEY"), "API key for the fittrack server")
	historyDir := flag.String("history-dir", "", "local SQLite history directory (default ~/.fittrack)")
	locale := flag.String("locale", string(report.English), "message locale for local mode (en, ru)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack-mcp", Version)
		return
	}

	// stdout carries the MCP stream, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var (
		ds   fittrackmcp.DataSource
		calc fittrackmcp.Calculator
	)

	if *serverURL != "" {
		client := fittrackmcp.NewHTTPClient(*serverURL, *apiKey)
		ds, calc = client, client
		log.Info("remote mode", "url", *serverURL)
	} else {
		dir := *historyDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Error("failed to get home directory", "error", err)
				os.Exit(1)
			}
			dir = filepath.Join(home, ".fittrack")
		}

		loc, err := report.ParseLocale(*locale)
		if err != nil {
			log.Error("invalid locale", "error", err)
			os.Exit(1)
		}

		store, err := history.OpenSQLite(dir)
		if err != nil {
			log.Error("failed to open history", "dir", dir, "error", err)
			os.Exit(1)
		}
		defer store.Close()

		ds, calc = store, ingest.NewProvider(store, report.New(loc), log)
		log.Info("local mode", "history_dir", dir)
	}

	s := fittrackmcp.New(ds, calc, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
