package archive

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"cypress/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, schema_version, codec_version, simulator, created_at, duration, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			simulator = excluded.simulator,
			created_at = excluded.created_at,
			duration = excluded.duration,
			payload = excluded.payload
	`, run.ID, run.SchemaVersion, run.CodecVersion, run.Simulator,
		run.CreatedAt.UnixMilli(), float64(run.Duration), run.Payload)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT id, schema_version, codec_version, simulator, created_at, duration, payload
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	if err := checkVersion(run); err != nil {
		return Run{}, false, err
	}
	return run, true, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, schema_version, codec_version, simulator, created_at, duration, LENGTH(payload)
		FROM runs ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var createdAt int64
		var duration float64
		if err := rows.Scan(&run.ID, &run.SchemaVersion, &run.CodecVersion,
			&run.Simulator, &createdAt, &duration, &run.PayloadSize); err != nil {
			return nil, err
		}
		run.CreatedAt = time.UnixMilli(createdAt).UTC()
		run.Duration = model.Real(duration)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `DELETE FROM runs`)
	return err
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func scanRun(row *sql.Row) (Run, error) {
	var run Run
	var createdAt int64
	var duration float64
	err := row.Scan(&run.ID, &run.SchemaVersion, &run.CodecVersion,
		&run.Simulator, &createdAt, &duration, &run.Payload)
	if err != nil {
		return Run{}, err
	}
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	run.Duration = model.Real(duration)
	run.PayloadSize = int64(len(run.Payload))
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			simulator TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			duration REAL NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
