package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/storage"
	"github.com/meltforce/fittrack/internal/workout"
)

// DataSource abstracts the history layer for MCP tools. *storage.DB,
// *history.SQLiteStore (local) and HTTPClient (remote via REST API) satisfy it.
type DataSource interface {
	QueryResults(ctx context.Context, start, end time.Time, kindFilter string) ([]models.ResultRow, error)
	GetResult(ctx context.Context, id uuid.UUID) (*models.ResultRow, error)
	KindTotals(ctx context.Context, start, end time.Time) ([]models.KindTotal, error)
}

// Calculator runs workout packages. *ingest.Provider computes locally;
// HTTPClient delegates to the server.
type Calculator interface {
	Ingest(ctx context.Context, pkgs []workout.Package, source string) (*ingest.Result, error)
}

// Compile-time checks.
var (
	_ DataSource = (*storage.DB)(nil)
	_ DataSource = (*history.SQLiteStore)(nil)
	_ Calculator = (*ingest.Provider)(nil)
)
