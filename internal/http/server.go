package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
	"github.com/denisok6893-rgb/fitmatch/internal/matching"
	"github.com/denisok6893-rgb/fitmatch/internal/metrics"
)

type Server struct {
	Recommender *matching.Recommender
	Exercises   ExerciseRepo
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
}

func NewServer(rec *matching.Recommender, exercises ExerciseRepo, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Recommender: rec, Exercises: exercises, Metrics: m, Logger: logger}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", s.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("/exercises", s.instrument("exercises", http.HandlerFunc(s.handleExercisesList)))
	mux.Handle("/exercises/", s.instrument("exercise", http.HandlerFunc(s.handleExerciseSubtree)))
	mux.Handle("/recommendations", s.instrument("recommendations", http.HandlerFunc(s.handleRecommendations)))
	mux.Handle("/metrics", promhttp.Handler())
	return otelhttp.NewHandler(s.withRequestID(mux), "fitmatch-http")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- Exercises API (read-only) ----

type ExercisesListResponse struct {
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
	Total  int               `json:"total"`
	Items  []domain.Exercise `json:"items"`
}

func (s *Server) handleExercisesList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := parseListParams(r)
	f := p.Filter()
	if p.IDs != "" && len(f.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_ids")
		return
	}

	items, total, err := s.Exercises.FindExercises(r.Context(), f)
	if err != nil {
		s.Metrics.RecordCatalogError("find")
		s.Logger.ErrorContext(r.Context(), "list exercises failed", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if items == nil {
		items = []domain.Exercise{}
	}

	writeJSON(w, http.StatusOK, ExercisesListResponse{
		Limit:  p.Limit,
		Offset: p.Offset,
		Total:  total,
		Items:  items,
	})
}

// handleExerciseSubtree serves /exercises/{id} and /exercises/{id}/alternatives.
func (s *Server) handleExerciseSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(r.URL.Path[len("/exercises/"):], "/")
	parts := strings.Split(rest, "/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "missing_id")
		return
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case len(parts) == 1:
		s.handleExerciseGet(w, r, id)
	case len(parts) == 2 && parts[1] == "alternatives":
		q := r.URL.Query()
		s.respondAlternatives(w, r, id, splitList(q["goals"]...), splitList(q["injuries"]...))
	default:
		writeError(w, http.StatusNotFound, "not_found")
	}
}

func (s *Server) handleExerciseGet(w http.ResponseWriter, r *http.Request, id int) {
	e, ok, err := s.Exercises.GetExercise(r.Context(), id)
	if err != nil {
		s.Metrics.RecordCatalogError("get")
		s.Logger.ErrorContext(r.Context(), "get exercise failed", "exercise_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// ---- Recommendations ----

// maxRecommendBody caps the POST /recommendations payload.
const maxRecommendBody = 64 << 10

type RecommendRequest struct {
	ExerciseID *int     `json:"exercise_id"`
	Goals      []string `json:"goals"`
	Injuries   []string `json:"injuries"`
}

type RecommendResponse struct {
	ExerciseID int                     `json:"exercise_id"`
	Results    []domain.Recommendation `json:"results"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecommendBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large")
			return
		}
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	// ids follow the same rules as the /exercises/{id} path segment
	switch {
	case req.ExerciseID == nil:
		writeError(w, http.StatusBadRequest, "exercise_id_required")
		return
	case *req.ExerciseID <= 0:
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	s.respondAlternatives(w, r, *req.ExerciseID, req.Goals, req.Injuries)
}

func (s *Server) respondAlternatives(w http.ResponseWriter, r *http.Request, id int, goals, injuries []string) {
	recs, err := s.Recommender.Alternatives(r.Context(), id, goals, injuries)
	switch {
	case errors.Is(err, matching.ErrExerciseNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case err != nil:
		s.Logger.ErrorContext(r.Context(), "recommendation failed", "exercise_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	writeJSON(w, http.StatusOK, RecommendResponse{ExerciseID: id, Results: recs})
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	// safety cap
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
