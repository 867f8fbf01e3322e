package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

// fixtureExercise accepts both the snake_case layout and the legacy
// camelCase fixture ("Id", "targetMuscles", numeric reps).
type fixtureExercise struct {
	ID            int             `json:"id"`
	LegacyID      int             `json:"Id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TargetMuscles []string        `json:"target_muscles"`
	LegacyMuscles []string        `json:"targetMuscles"`
	Difficulty    string          `json:"difficulty"`
	Equipment     string          `json:"equipment"`
	Sets          int             `json:"sets"`
	Reps          json.RawMessage `json:"reps"`
	Duration      string          `json:"duration"`
	Description   string          `json:"description"`
}

func (f fixtureExercise) toDomain() domain.Exercise {
	e := domain.Exercise{
		ID:            f.ID,
		Name:          f.Name,
		Category:      f.Category,
		TargetMuscles: f.TargetMuscles,
		Difficulty:    f.Difficulty,
		Equipment:     f.Equipment,
		Sets:          f.Sets,
		Duration:      f.Duration,
		Description:   f.Description,
	}
	if e.ID == 0 {
		e.ID = f.LegacyID
	}
	if len(e.TargetMuscles) == 0 {
		e.TargetMuscles = f.LegacyMuscles
	}
	e.Reps = parseReps(f.Reps)
	return e
}

func parseReps(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// LoadExercisesFromFile reads the exercise catalog from a JSON file.
func LoadExercisesFromFile(path string) ([]domain.Exercise, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exercises file: %w", err)
	}
	return ParseExercises(b)
}

// ParseExercises decodes a JSON array of exercises.
func ParseExercises(b []byte) ([]domain.Exercise, error) {
	var raw []fixtureExercise
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal exercises: %w", err)
	}
	out := make([]domain.Exercise, 0, len(raw))
	seen := make(map[int]struct{}, len(raw))
	for i, r := range raw {
		e := r.toDomain()
		if e.ID == 0 {
			return nil, fmt.Errorf("exercise #%d (%q): missing id", i, e.Name)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("exercise #%d: duplicate id %d", i, e.ID)
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out, nil
}

// MemoryCatalog is an immutable in-memory snapshot of the catalog.
// All methods return copies, so callers may modify results freely.
type MemoryCatalog struct {
	items []domain.Exercise
	byID  map[int]int
}

func NewMemoryCatalog(items []domain.Exercise) *MemoryCatalog {
	c := &MemoryCatalog{
		items: make([]domain.Exercise, 0, len(items)),
		byID:  make(map[int]int, len(items)),
	}
	for _, e := range items {
		c.byID[e.ID] = len(c.items)
		c.items = append(c.items, e.Clone())
	}
	return c
}

func (c *MemoryCatalog) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return cloneAll(c.items), nil
}

func (c *MemoryCatalog) GetExercise(ctx context.Context, id int) (domain.Exercise, bool, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Exercise{}, false, nil
	}
	return c.items[i].Clone(), true, nil
}

// FindExercises applies f and returns the requested page plus the total match count.
// IDs keep catalog order, Category matches exactly ignoring case, and Query is a
// plain case-insensitive substring of the name, the category or any target muscle.
// A zero Limit returns every match.
func (c *MemoryCatalog) FindExercises(ctx context.Context, f domain.ExerciseFilter) ([]domain.Exercise, int, error) {
	var matched []domain.Exercise
	for _, e := range c.items {
		if matchesFilter(e, f) {
			matched = append(matched, e)
		}
	}
	total := len(matched)
	return cloneAll(page(matched, f.Limit, f.Offset)), total, nil
}

func matchesFilter(e domain.Exercise, f domain.ExerciseFilter) bool {
	if len(f.IDs) > 0 && !containsInt(f.IDs, e.ID) {
		return false
	}
	if cat := strings.TrimSpace(f.Category); cat != "" && !strings.EqualFold(e.Category, cat) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		return matchesQuery(e, q)
	}
	return true
}

// matchesQuery reports whether q is a case-insensitive substring of the name,
// the category or one of the target muscles.
func matchesQuery(e domain.Exercise, q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(strings.ToLower(e.Category), q) {
		return true
	}
	for _, m := range e.TargetMuscles {
		if strings.Contains(strings.ToLower(m), q) {
			return true
		}
	}
	return false
}

func page(items []domain.Exercise, limit, offset int) []domain.Exercise {
	if offset < 0 {
		offset = 0
	}
	if offset > len(items) {
		offset = len(items)
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func cloneAll(items []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(items))
	for _, e := range items {
		out = append(out, e.Clone())
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
