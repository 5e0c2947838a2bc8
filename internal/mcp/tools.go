package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fittrack/internal/workout"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
// A date-only end covers that whole day.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		var dateOnly bool
		end, dateOnly, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if dateOnly {
			end = end.Add(24 * time.Hour)
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, _, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

// parseFlexTime accepts RFC3339 or YYYY-MM-DD and reports which one matched.
func parseFlexTime(s string) (time.Time, bool, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, false, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, true, nil
	}
	return time.Time{}, false, err
}

// --- Tool definitions ---

var toolCalculateWorkout = mcp.NewTool("calculate_workout",
	mcp.WithDescription("Compute distance (km), average speed (km/h) and calories for one sensor package. Returns the numbers and the formatted summary line."),
	mcp.WithString("type", mcp.Required(), mcp.Description("Type code: RUN (running), WLK (sports walking) or SWM (swimming)"), mcp.Enum("RUN", "WLK", "SWM")),
	mcp.WithArray("data", mcp.Required(),
		mcp.Description("Positional values. RUN: action, duration_h, weight_kg. WLK: + height_cm. SWM: + pool_length_m, pool_laps."),
		mcp.Items(map[string]any{"type": "number"}),
	),
)

var toolListWorkoutTypes = mcp.NewTool("list_workout_types",
	mcp.WithDescription("List supported type codes with their workout kind and expected parameters."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Query previously computed workouts, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("type", mcp.Description("Filter by type code (RUN, WLK, SWM) or kind name (Running, SportsWalking, Swimming)")),
)

var toolGetWorkoutTotals = mcp.NewTool("get_workout_totals",
	mcp.WithDescription("Workout count, total duration, distance and calories per workout kind."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

// --- Tool handlers ---

func (h *handlers) calculateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}

	data, err := numberArray(req.GetArguments()["data"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := h.calc.Ingest(ctx, []workout.Package{{Code: code, Data: data}}, "mcp")
	if err != nil {
		h.log.Error("mcp calculate_workout", "error", err)
		return mcp.NewToolResultError("calculation failed: " + err.Error()), nil
	}
	if len(res.Items) != 1 {
		return mcp.NewToolResultError("calculation returned no result"), nil
	}

	item := res.Items[0]
	if !item.OK() {
		return mcp.NewToolResultError(item.Error), nil
	}

	result, err := mcp.NewToolResultJSON(item)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkoutTypes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(workout.Types())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	kind, err := kindName(req.GetString("type", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, err := h.ds.QueryResults(ctx, start, end, kind)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(rows)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutTotals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	totals, err := h.ds.KindTotals(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_workout_totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(totals)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// numberArray converts a decoded JSON array into float64 values.
func numberArray(v any) ([]float64, error) {
	if v == nil {
		return nil, fmt.Errorf("data parameter is required")
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("data must be an array of numbers")
	}
	out := make([]float64, 0, len(raw))
	for i, e := range raw {
		switch n := e.(type) {
		case float64:
			out = append(out, n)
		case int:
			out = append(out, float64(n))
		default:
			return nil, fmt.Errorf("data[%d] is not a number", i)
		}
	}
	return out, nil
}

// kindName accepts a type code or kind name and returns the stored kind name.
func kindName(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	if t, err := workout.LookupType(v); err == nil {
		return t.Kind.String(), nil
	}
	if k, ok := workout.ParseKind(v); ok {
		return k.String(), nil
	}
	return "", fmt.Errorf("unknown workout type %q", v)
}
