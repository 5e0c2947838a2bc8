package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/models"
)

// ErrNotFound is returned by GetResult when no row matches.
var ErrNotFound = errors.New("result not found")

// Store persists computed workouts. Both the local SQLite store and the
// PostgreSQL storage.DB satisfy it.
type Store interface {
	InsertResult(ctx context.Context, row models.ResultRow) error
	QueryResults(ctx context.Context, start, end time.Time, kindFilter string) ([]models.ResultRow, error)
	GetResult(ctx context.Context, id uuid.UUID) (*models.ResultRow, error)
	KindTotals(ctx context.Context, start, end time.Time) ([]models.KindTotal, error)
}
