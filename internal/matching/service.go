package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
	"github.com/denisok6893-rgb/fitmatch/internal/metrics"
)

// ErrExerciseNotFound is returned when the target exercise is not in the catalog.
var ErrExerciseNotFound = errors.New("exercise not found")

// Catalog is the read-only exercise source the recommender scores against.
type Catalog interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id int) (domain.Exercise, bool, error)
}

// Recommender resolves the target exercise in a Catalog and runs the Engine.
type Recommender struct {
	catalog Catalog
	engine  *Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recommender) { r.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Recommender) { r.logger = l }
}

func NewRecommender(catalog Catalog, engine *Engine, opts ...Option) *Recommender {
	r := &Recommender{catalog: catalog, engine: engine, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Alternatives returns up to Rules.Limit alternatives for exerciseID.
// An unknown id yields a nil slice and ErrExerciseNotFound.
func (r *Recommender) Alternatives(ctx context.Context, exerciseID int, goals, injuries []string) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, ok, err := r.catalog.GetExercise(ctx, exerciseID)
	if err != nil {
		r.metrics.RecordCatalogError("get")
		r.metrics.RecordRecommendation("error", 0, 0)
		return nil, fmt.Errorf("get exercise %d: %w", exerciseID, err)
	}
	if !ok {
		r.metrics.RecordRecommendation("not_found", 0, 0)
		r.logger.DebugContext(ctx, "recommendation target missing", "exercise_id", exerciseID)
		return nil, fmt.Errorf("exercise %d: %w", exerciseID, ErrExerciseNotFound)
	}

	all, err := r.catalog.ListExercises(ctx)
	if err != nil {
		r.metrics.RecordCatalogError("list")
		r.metrics.RecordRecommendation("error", 0, 0)
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	recs := r.engine.Recommend(target, all, goals, injuries)

	result, top := "empty", 0
	if len(recs) > 0 {
		result, top = "ok", recs[0].MatchScore
	}
	r.metrics.RecordRecommendation(result, len(recs), top)
	r.logger.DebugContext(ctx, "recommendations computed",
		"exercise_id", exerciseID,
		"goals", goals,
		"injuries", injuries,
		"candidates", len(all),
		"returned", len(recs),
		"top_score", top,
	)
	return recs, nil
}
