package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
)

// Store is a SQLite database holding transform history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database in dataDir.
// If dataDir is empty, defaults to ~/.pagebridge/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pagebridge", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunStore returns a RunStore backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate applies pending up migrations in version order.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Rollback reverts the newest applied migration using its .down.sql file.
func (s *Store) Rollback() error {
	current, err := s.version()
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}
	if current == 0 {
		return nil
	}

	matches, err := fs.Glob(migrations.FS, fmt.Sprintf("%03d_*.down.sql", current))
	if err != nil || len(matches) == 0 {
		return fmt.Errorf("%w: no down migration for version %d", domain.ErrNotFound, current)
	}
	content, err := fs.ReadFile(migrations.FS, matches[0])
	if err != nil {
		return fmt.Errorf("reading migration %s: %w", matches[0], err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting rollback: %w", err)
	}
	if _, err := tx.Exec(string(content)); err != nil {
		tx.Rollback()
		return fmt.Errorf("executing migration %s: %w", matches[0], err)
	}
	if _, err := tx.Exec("DELETE FROM schema_migrations WHERE version = ?", current); err != nil {
		tx.Rollback()
		return fmt.Errorf("unrecording migration %s: %w", matches[0], err)
	}
	return tx.Commit()
}

// version returns the highest applied migration.
func (s *Store) version() (int, error) {
	var v int
	err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = `id, input, source, target, zones, transformer, fingerprint,
	metadata_preserved, keys_total, keys_preserved, zones_modified, cached, created_at`

// Save stores or replaces a run.
func (r *runStore) Save(ctx context.Context, run *domain.TransformRun) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("%w: run without id", domain.ErrInvalidInput)
	}

	_, err := r.store.db.ExecContext(ctx, `
		INSERT INTO transform_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input = excluded.input,
			source = excluded.source,
			target = excluded.target,
			zones = excluded.zones,
			transformer = excluded.transformer,
			fingerprint = excluded.fingerprint,
			metadata_preserved = excluded.metadata_preserved,
			keys_total = excluded.keys_total,
			keys_preserved = excluded.keys_preserved,
			zones_modified = excluded.zones_modified,
			cached = excluded.cached,
			created_at = excluded.created_at
	`,
		run.ID, run.Input, run.Source, run.Target, run.Zones.String(), run.Transformer,
		run.Fingerprint, run.MetadataPreserved, run.KeysTotal, run.KeysPreserved,
		run.ZonesModified, boolToInt(run.Cached), run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *runStore) Get(ctx context.Context, id string) (*domain.TransformRun, error) {
	row := r.store.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM transform_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}
	return run, nil
}

// List returns runs newest first.
func (r *runStore) List(ctx context.Context, limit int) ([]domain.TransformRun, error) {
	query := `SELECT ` + runColumns + ` FROM transform_runs ORDER BY created_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.TransformRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Delete removes a run. Deleting an unknown run is not an error.
func (r *runStore) Delete(ctx context.Context, id string) error {
	if _, err := r.store.db.ExecContext(ctx, `DELETE FROM transform_runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.TransformRun, error) {
	var (
		run       domain.TransformRun
		zones     string
		cached    int
		createdAt int64
	)
	err := sc.Scan(
		&run.ID, &run.Input, &run.Source, &run.Target, &zones, &run.Transformer,
		&run.Fingerprint, &run.MetadataPreserved, &run.KeysTotal, &run.KeysPreserved,
		&run.ZonesModified, &cached, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	run.Zones, err = domain.ParseZoneSet(zones)
	if err != nil {
		return nil, fmt.Errorf("parsing zones %q: %w", zones, err)
	}
	run.Cached = cached != 0
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
