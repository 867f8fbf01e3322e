package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

// ExerciseRepo is the catalog view the listing endpoints need.
// storage.MemoryCatalog and storage.SQLStore both satisfy it.
type ExerciseRepo interface {
	GetExercise(ctx context.Context, id int) (domain.Exercise, bool, error)
	FindExercises(ctx context.Context, f domain.ExerciseFilter) ([]domain.Exercise, int, error)
}

// ListParams are the raw query parameters of GET /exercises.
type ListParams struct {
	Category string
	Query    string
	IDs      string
	Limit    int
	Offset   int
}

func parseListParams(r *http.Request) ListParams {
	q := r.URL.Query()
	limit, offset := parseLimitOffset(r, 20, 0)
	return ListParams{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		IDs:      q.Get("ids"),
		Limit:    limit,
		Offset:   offset,
	}
}

// Filter converts the params; malformed ids are skipped.
func (p ListParams) Filter() domain.ExerciseFilter {
	f := domain.ExerciseFilter{
		Category: p.Category,
		Query:    p.Query,
		Limit:    p.Limit,
		Offset:   p.Offset,
	}
	for _, raw := range splitList(p.IDs) {
		if id, err := strconv.Atoi(raw); err == nil {
			f.IDs = append(f.IDs, id)
		}
	}
	return f
}

// splitList splits comma-separated values and drops empty items.
func splitList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
