package upload

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/workout"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	PackagesSent     int
	PackagesComputed int
	PackagesFailed   int

	UnknownCodes []string
}

// Uploader walks a directory of package files (.txt, .yaml, .yml) and POSTs
// each new or changed file to the fittrack server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// fileInfo tracks a file's metadata for state DB operations.
type fileInfo struct {
	relPath string
	size    int64
	hash    string
}

// Run executes the upload pipeline.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	// Fetch accepted codes from server (skip in dry-run, use the local table)
	known := map[string]bool{}
	if u.dryRun {
		for _, t := range workout.Types() {
			known[t.Code] = true
		}
	} else {
		var err error
		known, err = u.client.FetchWorkoutTypes(ctx)
		if err != nil {
			return &u.stats, fmt.Errorf("fetching workout types: %w", err)
		}
		u.log.Info("fetched workout types", "count", len(known))
	}

	files, err := PackageFiles(u.dir)
	if err != nil {
		return &u.stats, err
	}

	unknownSet := map[string]bool{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++

		fi, ok := u.inspect(path)
		if !ok {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			u.log.Warn("read failed", "file", path, "error", err)
			u.stats.FilesErrored++
			continue
		}

		format := ingest.FormatForPath(path)
		pkgs, err := ingest.Parse(bytes.NewReader(data), format)
		if err != nil {
			u.log.Warn("parse failed", "file", path, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if len(pkgs) == 0 {
			u.stats.FilesSkipped++
			// Mark empty files as uploaded so we don't re-check them
			if !u.dryRun {
				if err := u.state.MarkUploaded(fi.relPath, fi.size, fi.hash, 0, 0); err != nil {
					u.log.Warn("failed to mark uploaded", "file", fi.relPath, "error", err)
				}
			}
			continue
		}
		for _, p := range pkgs {
			if !known[p.Code] && !unknownSet[p.Code] {
				unknownSet[p.Code] = true
				u.stats.UnknownCodes = append(u.stats.UnknownCodes, p.Code)
			}
		}

		if u.dryRun {
			computed, failed := computeLocal(pkgs)
			u.log.Info("dry-run: would send", "file", fi.relPath, "packages", len(pkgs), "computed", computed, "failed", failed)
			u.stats.PackagesSent += len(pkgs)
			u.stats.PackagesComputed += computed
			u.stats.PackagesFailed += failed
			continue
		}

		res, err := u.client.SendFile(ctx, data, format)
		if err != nil {
			return &u.stats, fmt.Errorf("sending %s: %w", fi.relPath, err)
		}
		u.stats.PackagesSent += res.PackagesReceived
		u.stats.PackagesComputed += res.PackagesComputed
		u.stats.PackagesFailed += res.PackagesFailed

		for _, it := range res.Items {
			if !it.OK() {
				u.log.Warn("package rejected by server", "file", fi.relPath, "index", it.Index, "type", it.Type, "reason", it.Reason, "error", it.Error)
			}
		}

		if err := u.state.MarkUploaded(fi.relPath, fi.size, fi.hash, res.PackagesComputed, res.PackagesFailed); err != nil {
			u.log.Warn("failed to mark uploaded", "file", fi.relPath, "error", err)
		}
		u.stats.FilesUploaded++
		u.log.Info("uploaded file", "file", fi.relPath, "packages", res.PackagesReceived, "computed", res.PackagesComputed)
	}

	return &u.stats, nil
}

// inspect stats and hashes a file and checks it against the state DB.
// It returns false when the file errored or was already uploaded.
func (u *Uploader) inspect(path string) (fileInfo, bool) {
	relPath, _ := filepath.Rel(u.dir, path)
	info, err := os.Stat(path)
	if err != nil {
		u.log.Warn("stat failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return fileInfo{}, false
	}

	hash, err := HashFile(path)
	if err != nil {
		u.log.Warn("hash failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return fileInfo{}, false
	}

	uploaded, err := u.state.IsUploaded(relPath, info.Size(), hash)
	if err != nil {
		u.log.Warn("state check failed", "file", path, "error", err)
		u.stats.FilesErrored++
		return fileInfo{}, false
	}
	if uploaded {
		u.stats.FilesSkipped++
		return fileInfo{}, false
	}
	return fileInfo{relPath: relPath, size: info.Size(), hash: hash}, true
}

func computeLocal(pkgs []workout.Package) (computed, failed int) {
	for _, p := range pkgs {
		if _, _, err := workout.Process(p); err != nil {
			failed++
			continue
		}
		computed++
	}
	return computed, failed
}

// PackageFiles returns the package files under dir in lexical order.
func PackageFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
