package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/perpetual-calendar/internal/calendar"
	"github.com/zapponejosh/perpetual-calendar/internal/config"
	"github.com/zapponejosh/perpetual-calendar/internal/database"
	"github.com/zapponejosh/perpetual-calendar/internal/logger"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db      *database.DB
	cfg     *config.Config
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// NewHandlers creates a new Handlers instance. metrics may be nil.
func NewHandlers(db *database.DB, cfg *config.Config, logger *slog.Logger, metrics *Metrics) *Handlers {
	return &Handlers{
		db:      db,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// OccurrencesResponse is the payload of GET /api/v1/occurrences.
type OccurrencesResponse struct {
	Query   calendar.Query   `json:"query"`
	Stats   calendar.Stats   `json:"stats"`
	Cached  bool             `json:"cached"`
	Matches []calendar.Match `json:"matches"`
}

// LeapResponse is the payload of GET /api/v1/leap/{year}.
type LeapResponse struct {
	Year      int  `json:"year"`
	Julian    bool `json:"julian"`
	Gregorian bool `json:"gregorian"`
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnavailable)
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// GetOccurrences handles GET /api/v1/occurrences?day=&month=&year=&through=
//
// Runs are cached by query, so the simulation for a given query only ever
// happens once.
func (h *Handlers) GetOccurrences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := dateFromQuery(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	through := false
	if s := r.URL.Query().Get("through"); s != "" {
		through, err = strconv.ParseBool(s)
		if err != nil {
			WriteBadRequest(w, fmt.Sprintf("Invalid through value: %s", s))
			return
		}
	}

	q := calendar.Query{Day: d.Day, Month: d.Month, Year: d.Year, Through: through}
	if err := calendar.Validate(q); err != nil {
		WriteError(w, http.StatusBadRequest, "Date not legal", CodeIllegalDate)
		return
	}
	if h.cfg.MaxQueryYear > 0 && q.Year > h.cfg.MaxQueryYear {
		WriteError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("Year %d exceeds the limit of %d", q.Year, h.cfg.MaxQueryYear),
			CodeYearTooLarge)
		return
	}

	run, err := h.db.GetRun(ctx, q)
	switch {
	case err == nil:
		h.metrics.CacheHit()
		WriteSuccess(w, OccurrencesResponse{
			Query:   run.Query,
			Stats:   run.Stats,
			Cached:  true,
			Matches: run.Matches,
		})
		return
	case !database.IsNotFound(err):
		h.log(r).Error("failed to read cached run", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve occurrences")
		return
	}

	h.metrics.CacheMiss()

	run, err = h.simulate(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			h.metrics.SimulationCancelled()
			h.log(r).Info("simulation abandoned", slog.Any("error", err))
			return
		}
		h.metrics.SimulationFailed()
		h.log(r).Error("simulation failed", slog.Any("error", err))
		WriteInternalError(w, "Failed to simulate calendars")
		return
	}

	if err := h.db.SaveRun(ctx, run); err != nil && !errors.Is(err, database.ErrDuplicate) {
		// The result is still good; only the cache write failed.
		h.log(r).Warn("failed to cache run", slog.Any("error", err))
	}

	WriteSuccess(w, OccurrencesResponse{
		Query:   run.Query,
		Stats:   run.Stats,
		Cached:  false,
		Matches: run.Matches,
	})
}

func (h *Handlers) simulate(ctx context.Context, q calendar.Query) (*database.Run, error) {
	start := time.Now()
	matches := make([]calendar.Match, 0)

	stats, err := calendar.RunContext(ctx, q, func(m calendar.Match) {
		matches = append(matches, m)
	})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	h.metrics.SimulationDone(stats.Days, elapsed)

	logger.FromContext(ctx, h.logger).Debug("simulation complete",
		slog.Int("day", q.Day),
		slog.Int("month", q.Month),
		slog.Int("year", q.Year),
		slog.Bool("through", q.Through),
		slog.Int("days", stats.Days),
		slog.Int("matches", stats.Matches),
		slog.Duration("elapsed", elapsed),
	)

	return &database.Run{Query: q, Stats: stats, Matches: matches}, nil
}

// Convert handles GET /api/v1/convert/{calendar}?day=&month=&year=
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	sys, err := calendar.ParseSystem(chi.URLParam(r, "calendar"))
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	d, err := dateFromQuery(r)
	if err != nil {
		WriteBadRequest(w, err.Error())
		return
	}

	conv, err := calendar.Convert(sys, d, h.now())
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Date not legal", CodeIllegalDate)
		return
	}

	WriteSuccess(w, conv)
}

// GetLeap handles GET /api/v1/leap/{year}
func (h *Handlers) GetLeap(w http.ResponseWriter, r *http.Request) {
	yearStr := chi.URLParam(r, "year")
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", yearStr))
		return
	}

	WriteSuccess(w, LeapResponse{
		Year:      year,
		Julian:    calendar.IsJulianLeap(year),
		Gregorian: calendar.IsGregorianLeap(year),
	})
}

// GetRecentQueries handles GET /api/v1/queries/recent?limit=
func (h *Handlers) GetRecentQueries(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if l, err := strconv.Atoi(s); err == nil && l > 0 && l <= maxRecentLimit {
			limit = l
		}
	}

	runs, err := h.db.RecentRuns(r.Context(), limit)
	if err != nil {
		h.log(r).Error("failed to list recent runs", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve recent queries")
		return
	}
	if runs == nil {
		runs = []database.RunSummary{}
	}

	WriteSuccess(w, map[string]any{
		"queries": runs,
		"limit":   limit,
	})
}

// DeleteQuery handles DELETE /api/v1/queries/{id}
func (h *Handlers) DeleteQuery(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteBadRequest(w, "Invalid query ID")
		return
	}

	if err := h.db.DeleteRun(r.Context(), id); err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, "Query not found")
			return
		}
		h.log(r).Error("failed to delete run", slog.Int64("id", id), slog.Any("error", err))
		WriteInternalError(w, "Failed to delete query")
		return
	}

	WriteSuccess(w, map[string]string{"message": "Query deleted"})
}

// dateFromQuery reads the day, month and year query parameters.
func dateFromQuery(r *http.Request) (calendar.Date, error) {
	values := r.URL.Query()

	var parts [3]int
	for i, name := range []string{"day", "month", "year"} {
		s := values.Get(name)
		if s == "" {
			return calendar.Date{}, fmt.Errorf("%s parameter is required", name)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return calendar.Date{}, fmt.Errorf("invalid %s: %s", name, s)
		}
		parts[i] = n
	}

	return calendar.Date{Day: parts[0], Month: parts[1], Year: parts[2]}, nil
}
