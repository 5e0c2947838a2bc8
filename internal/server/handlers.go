package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/workout"
)

const maxBodyBytes = 1 << 20

type calculateRequest struct {
	Packages []workout.Package `json:"packages"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.ingest(w, r, req.Packages, "api")
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	format := ingest.FormatText
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = ingest.FormatYAML
		}
	}

	pkgs, err := ingest.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	s.ingest(w, r, pkgs, "import")
}

func (s *Server) ingest(w http.ResponseWriter, r *http.Request, pkgs []workout.Package, source string) {
	if len(pkgs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no packages supplied"})
		return
	}

	result, err := s.provider.Ingest(r.Context(), pkgs, source)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if result.PackagesComputed == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, result)
}

func (s *Server) handleQueryResults(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	kindFilter, err := kindFilter(r.URL.Query().Get("type"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	rows, err := s.store.QueryResults(r.Context(), start, end, kindFilter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid result ID"})
		return
	}

	row, err := s.store.GetResult(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "result not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *Server) handleKindTotals(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	totals, err := s.store.KindTotals(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleWorkoutTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, workout.Types())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// kindFilter accepts a type code (RUN) or a kind name (Running).
func kindFilter(v string) (string, error) {
	if v == "" {
		return "", nil
	}
	if t, err := workout.LookupType(v); err == nil {
		return t.Kind.String(), nil
	}
	if k, ok := workout.ParseKind(v); ok {
		return k.String(), nil
	}
	return "", errors.New("unknown workout type " + v)
}

// parseTimeRange reads start/end query params. Missing end is now; missing
// start is 7 days before end. A date-only end covers that whole day.
func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}

	if startStr == "" {
		start = end.AddDate(0, 0, -7)
		return start, end, nil
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}
