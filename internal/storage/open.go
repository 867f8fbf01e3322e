package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

// Catalog is the full read-only view served by MemoryCatalog and SQLStore.
type Catalog interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id int) (domain.Exercise, bool, error)
	FindExercises(ctx context.Context, f domain.ExerciseFilter) ([]domain.Exercise, int, error)
}

// OpenCatalog returns a SQL-backed catalog when dsn is set, otherwise an
// in-memory catalog loaded from fixturePath. An empty database is seeded from
// the fixture when the file exists. The returned func releases resources.
func OpenCatalog(ctx context.Context, driver, dsn, fixturePath string) (Catalog, func() error, error) {
	if dsn == "" {
		items, err := LoadExercisesFromFile(fixturePath)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "catalog loaded from fixture", "path", fixturePath, "exercises", len(items))
		return NewMemoryCatalog(items), func() error { return nil }, nil
	}

	store, err := OpenSQL(driver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	n, err := store.CountExercises(ctx)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("count exercises: %w", err)
	}
	if n == 0 && fixturePath != "" {
		items, err := LoadExercisesFromFile(fixturePath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.WarnContext(ctx, "database is empty and fixture is missing", "path", fixturePath)
		case err != nil:
			_ = store.Close()
			return nil, nil, err
		default:
			if err := store.UpsertMany(ctx, items); err != nil {
				_ = store.Close()
				return nil, nil, fmt.Errorf("seed exercises: %w", err)
			}
			n = len(items)
			slog.InfoContext(ctx, "catalog seeded", "driver", driver, "exercises", n)
		}
	}
	slog.InfoContext(ctx, "catalog opened", "driver", driver, "exercises", n)
	return store, store.Close, nil
}
