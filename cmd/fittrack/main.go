package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/meltforce/fittrack/internal/config"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/report"
	"github.com/meltforce/fittrack/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	input := flag.String("input", "", "package file (.yaml/.yml or semicolon text, - for stdin); empty runs the sample packages")
	locale := flag.String("locale", string(report.English), "message locale (en, ru)")
	historyDir := flag.String("history-dir", "", "record results in a local SQLite history under this directory")
	strict := flag.Bool("strict", false, "exit non-zero on the first package that fails")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fittrack", Version)
		return
	}

	// Results go to stdout, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogConfig{Level: *logLevel}.SlogLevel()}))

	loc, err := report.ParseLocale(*locale)
	if err != nil {
		log.Error("invalid locale", "error", err)
		os.Exit(2)
	}

	pkgs, err := readPackages(*input)
	if err != nil {
		log.Error("failed to read packages", "input", *input, "error", err)
		os.Exit(1)
	}

	var store history.Store
	if *historyDir != "" {
		s, err := history.OpenSQLite(*historyDir)
		if err != nil {
			log.Error("failed to open history", "dir", *historyDir, "error", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	provider := ingest.NewProvider(store, report.New(loc), log)
	if failed := run(context.Background(), provider, pkgs, *strict, os.Stdout, log); failed > 0 && *strict {
		os.Exit(1)
	}
}

// run computes packages in order and prints one message per computed
// package. Failures are logged by the provider. In strict mode it stops at
// the first failure.
func run(ctx context.Context, p *ingest.Provider, pkgs []workout.Package, strict bool, out io.Writer, log *slog.Logger) int {
	failed := 0
	for _, pkg := range pkgs {
		res, err := p.Ingest(ctx, []workout.Package{pkg}, "cli")
		if err != nil {
			log.Error("ingest failed", "type", pkg.Code, "error", err)
			failed++
			if strict {
				return failed
			}
			continue
		}
		item := res.Items[0]
		if !item.OK() {
			failed++
			if strict {
				return failed
			}
			continue
		}
		fmt.Fprintln(out, item.Message)
	}
	return failed
}

func readPackages(input string) ([]workout.Package, error) {
	switch input {
	case "":
		return ingest.DefaultPackages(), nil
	case "-":
		return ingest.ParseText(os.Stdin)
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ingest.Parse(f, ingest.FormatForPath(input))
}
