package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/denisok6893-rgb/fitmatch/internal/domain"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const exerciseColumns = `id, name, category, target_muscles_json, difficulty, equipment, sets, reps, duration, description`

// SQLStore is a catalog backed by SQLite or PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a catalog database. driver is DriverSQLite or DriverPostgres.
func OpenSQL(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// in-memory databases are per connection
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		}
		if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS exercises (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  target_muscles_json TEXT NOT NULL DEFAULT '[]',
  difficulty TEXT NOT NULL DEFAULT '',
  equipment TEXT NOT NULL DEFAULT '',
  sets INTEGER NOT NULL DEFAULT 0,
  reps TEXT NOT NULL DEFAULT '',
  duration TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT ''
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create exercises table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category);`); err != nil {
		return fmt.Errorf("create category index: %w", err)
	}
	return nil
}

func (s *SQLStore) CountExercises(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&n)
	return n, err
}

// UpsertMany seeds the catalog; rows whose id already exists are left untouched.
func (s *SQLStore) UpsertMany(ctx context.Context, items []domain.Exercise) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
INSERT INTO exercises
(`+exerciseColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO NOTHING
`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range items {
		muscles, err := json.Marshal(nonNil(e.TargetMuscles))
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Name, e.Category, string(muscles), e.Difficulty, e.Equipment,
			e.Sets, e.Reps, e.Duration, e.Description,
		); err != nil {
			return fmt.Errorf("insert exercise %d: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetExercise(ctx context.Context, id int) (domain.Exercise, bool, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`), id)
	e, err := scanExercise(row)
	if err == sql.ErrNoRows {
		return domain.Exercise{}, false, nil
	}
	if err != nil {
		return domain.Exercise{}, false, err
	}
	return e, true, nil
}

func (s *SQLStore) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	out, _, err := s.FindExercises(ctx, domain.ExerciseFilter{})
	return out, err
}

// FindExercises applies f and returns the requested page plus the total match count.
// A zero Limit returns every match. Category and IDs are filtered in SQL; Query
// is matched after the scan with the same rules as MemoryCatalog, since target
// muscles are stored as JSON text.
func (s *SQLStore) FindExercises(ctx context.Context, f domain.ExerciseFilter) ([]domain.Exercise, int, error) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 3+len(f.IDs))

	if c := strings.TrimSpace(f.Category); c != "" {
		where = append(where, "LOWER(category) = LOWER(?)")
		args = append(args, c)
	}
	if len(f.IDs) > 0 {
		marks := make([]string, len(f.IDs))
		for i, id := range f.IDs {
			marks[i] = "?"
			args = append(args, id)
		}
		where = append(where, "id IN ("+strings.Join(marks, ", ")+")")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}
	rowsSQL := "SELECT " + exerciseColumns + " FROM exercises " + whereSQL + " ORDER BY id"

	if q := strings.TrimSpace(f.Query); q != "" {
		all, err := s.queryExercises(ctx, rowsSQL, args)
		if err != nil {
			return nil, 0, err
		}
		matched := all[:0]
		for _, e := range all {
			if matchesQuery(e, q) {
				matched = append(matched, e)
			}
		}
		return page(matched, f.Limit, f.Offset), len(matched), nil
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM exercises "+whereSQL), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsArgs := append([]any{}, args...)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	switch {
	case f.Limit > 0:
		rowsSQL += " LIMIT ? OFFSET ?"
		rowsArgs = append(rowsArgs, f.Limit, offset)
	case offset > 0 && s.driver == DriverSQLite:
		rowsSQL += " LIMIT -1 OFFSET ?"
		rowsArgs = append(rowsArgs, offset)
	case offset > 0:
		rowsSQL += " OFFSET ?"
		rowsArgs = append(rowsArgs, offset)
	}

	out, err := s.queryExercises(ctx, rowsSQL, rowsArgs)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *SQLStore) queryExercises(ctx context.Context, query string, args []any) ([]domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExercise(sc scanner) (domain.Exercise, error) {
	var e domain.Exercise
	var musclesJSON string
	if err := sc.Scan(
		&e.ID, &e.Name, &e.Category, &musclesJSON, &e.Difficulty, &e.Equipment,
		&e.Sets, &e.Reps, &e.Duration, &e.Description,
	); err != nil {
		return domain.Exercise{}, err
	}
	if err := json.Unmarshal([]byte(musclesJSON), &e.TargetMuscles); err != nil {
		return domain.Exercise{}, fmt.Errorf("exercise %d: decode target muscles: %w", e.ID, err)
	}
	return e, nil
}

// rebind rewrites "?" placeholders to "$n" for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func nonNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
