// Package sqlite provides a SQLite-backed stream snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/twister/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/twister/internal/stream"
	"github.com/louisbranch/twister/internal/stream/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists stream snapshots in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite snapshot store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSnapshot inserts or replaces the snapshot for one stream name.
func (s *Store) PutSnapshot(ctx context.Context, snapshot stream.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(snapshot.Name)
	if name == "" {
		return stream.ErrNameRequired
	}
	if len(snapshot.State) == 0 {
		return fmt.Errorf("snapshot state is required")
	}
	updatedAt := snapshot.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO stream_snapshots (name, seed, draws, state, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   seed = excluded.seed,
		   draws = excluded.draws,
		   state = excluded.state,
		   updated_at = excluded.updated_at`,
		name,
		int64(snapshot.Seed),
		int64(snapshot.Draws),
		snapshot.State,
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns one snapshot by stream name.
func (s *Store) GetSnapshot(ctx context.Context, name string) (stream.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return stream.Snapshot{}, err
	}
	if s == nil || s.sqlDB == nil {
		return stream.Snapshot{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return stream.Snapshot{}, stream.ErrNameRequired
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT name, seed, draws, state, updated_at
		   FROM stream_snapshots
		  WHERE name = ?`,
		name,
	)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stream.Snapshot{}, stream.ErrNotFound
		}
		return stream.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snapshot, nil
}

// ListSnapshots returns every snapshot ordered by name.
func (s *Store) ListSnapshots(ctx context.Context) ([]stream.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT name, seed, draws, state, updated_at
		   FROM stream_snapshots
		  ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []stream.Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snapshots, nil
}

// DeleteSnapshot removes one snapshot by stream name.
func (s *Store) DeleteSnapshot(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return stream.ErrNameRequired
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM stream_snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if affected == 0 {
		return stream.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (stream.Snapshot, error) {
	var snapshot stream.Snapshot
	var seed int64
	var draws int64
	var updatedAt int64
	if err := row.Scan(&snapshot.Name, &seed, &draws, &snapshot.State, &updatedAt); err != nil {
		return stream.Snapshot{}, err
	}
	snapshot.Seed = uint32(seed)
	snapshot.Draws = uint64(draws)
	snapshot.UpdatedAt = fromMillis(updatedAt)
	return snapshot, nil
}

var _ stream.Store = (*Store)(nil)
