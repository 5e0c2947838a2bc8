package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/observability"
	"github.com/meltforce/fittrack/internal/report"
	"github.com/meltforce/fittrack/internal/workout"
)

// Result holds the outcome of an ingest operation.
type Result struct {
	PackagesReceived int    `json:"packages_received"`
	PackagesComputed int    `json:"packages_computed"`
	PackagesFailed   int    `json:"packages_failed"`
	ResultsStored    int    `json:"results_stored"`
	Items            []Item `json:"items"`
}

// Item is the outcome for one package, in input order.
type Item struct {
	Index   int             `json:"index"`
	Type    string          `json:"type"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Result  *workout.Result `json:"result,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// OK reports whether the package was computed.
func (it Item) OK() bool {
	return it.Error == ""
}

// Provider computes workout packages and records them in a history store.
type Provider struct {
	store  history.Store
	format *report.Formatter
	log    *slog.Logger
	now    func() time.Time
}

// NewProvider creates a Provider. store may be nil, in which case results
// are computed and formatted but not persisted.
func NewProvider(store history.Store, formatter *report.Formatter, log *slog.Logger) *Provider {
	if formatter == nil {
		formatter = report.New(report.English)
	}
	return &Provider{store: store, format: formatter, log: log, now: time.Now}
}

// Ingest processes pkgs in order. A package that fails to read or compute is
// reported in its Item and does not stop the batch; a storage failure does.
func (p *Provider) Ingest(ctx context.Context, pkgs []workout.Package, source string) (*Result, error) {
	result := &Result{
		PackagesReceived: len(pkgs),
		Items:            make([]Item, 0, len(pkgs)),
	}

	for i, pkg := range pkgs {
		item := Item{Index: i, Type: pkg.Code}

		rec, res, err := workout.Process(pkg)
		if err != nil {
			item.Error = err.Error()
			item.Reason = workout.Reason(err)
			result.PackagesFailed++
			result.Items = append(result.Items, item)
			observability.RecordFailed(item.Reason)
			p.log.Warn("package rejected", "index", i, "type", pkg.Code, "reason", item.Reason, "error", err)
			continue
		}

		now := p.now()
		item.Result = &res
		item.Message = p.format.Format(res)
		result.PackagesComputed++
		observability.RecordComputed(res.Kind.String(), res.Calories, now)

		if p.store != nil {
			row := models.NewResultRow(rec, res, item.Message, source, now)
			if err := p.store.InsertResult(ctx, row); err != nil {
				return nil, fmt.Errorf("storing result %d (%s): %w", i, pkg.Code, err)
			}
			id := row.ID
			item.ID = &id
			result.ResultsStored++
		}

		result.Items = append(result.Items, item)
	}

	p.log.Info("packages processed",
		"source", source,
		"received", result.PackagesReceived,
		"computed", result.PackagesComputed,
		"failed", result.PackagesFailed,
	)
	return result, nil
}
