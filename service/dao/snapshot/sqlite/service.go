package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/viant/idregistry/model"
	"github.com/viant/idregistry/service/dao"
)

// Schema stores snapshots in normalised tables; positions keep list order.
const Schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	saved_at TEXT NOT NULL,
	revision INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS databases (
	snapshot_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (snapshot_id, code),
	FOREIGN KEY (snapshot_id) REFERENCES snapshots(id)
);

CREATE TABLE IF NOT EXISTS registries (
	snapshot_id TEXT NOT NULL,
	database_code TEXT NOT NULL,
	position INTEGER NOT NULL,
	code TEXT NOT NULL,
	label TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (snapshot_id, database_code, code),
	FOREIGN KEY (snapshot_id, database_code) REFERENCES databases(snapshot_id, code)
);
`

// Service implements dao.Service for snapshots on top of SQLite.
type Service struct {
	db *sql.DB
}

var _ dao.Service[string, model.Snapshot] = (*Service)(nil)

// New opens (or creates) the SQLite database at dsn and applies Schema.
func New(ctx context.Context, dsn string) (*Service, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn cannot be empty")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)
	if _, err = db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Service{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Service) Close() error {
	return s.db.Close()
}

// Save replaces every row of the snapshot within one transaction.
func (s *Service) Save(ctx context.Context, snapshot *model.Snapshot) (err error) {
	if snapshot == nil {
		return dao.ErrNilEntity
	}
	if snapshot.ID == "" {
		return dao.ErrInvalidID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = deleteRows(ctx, tx, snapshot.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, saved_at, revision) VALUES (?, ?, ?)`,
		snapshot.ID, snapshot.SavedAt.UTC().Format(time.RFC3339Nano), int64(snapshot.Revision),
	); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	for i, database := range snapshot.Databases {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO databases (snapshot_id, position, code, name, description) VALUES (?, ?, ?, ?, ?)`,
			snapshot.ID, i, database.Code, database.Name, database.Description,
		); err != nil {
			return fmt.Errorf("failed to insert database %s: %w", database.Name, err)
		}
		for j, registry := range database.Registries {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO registries (snapshot_id, database_code, position, code, label, category) VALUES (?, ?, ?, ?, ?, ?)`,
				snapshot.ID, database.Code, j, registry.Code, registry.Label, registry.Category,
			); err != nil {
				return fmt.Errorf("failed to insert registry %s: %w", registry.Label, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot with its databases and registries in stored order.
func (s *Service) Load(ctx context.Context, id string) (*model.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	ret := &model.Snapshot{ID: id}
	var savedAt string
	var revision int64
	err := s.db.QueryRowContext(ctx, `SELECT saved_at, revision FROM snapshots WHERE id = ?`, id).Scan(&savedAt, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: snapshot %s", dao.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if ret.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return nil, fmt.Errorf("invalid saved_at %q: %w", savedAt, err)
	}
	ret.Revision = uint64(revision)

	if ret.Databases, err = s.loadDatabases(ctx, id); err != nil {
		return nil, err
	}
	registries, err := s.loadRegistries(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range ret.Databases {
		database := &ret.Databases[i]
		database.Registries = registries[database.Code]
		if database.Registries == nil {
			database.Registries = []model.RegistryRecord{}
		}
	}
	return ret, nil
}

func (s *Service) loadDatabases(ctx context.Context, id string) ([]model.DatabaseRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, description FROM databases WHERE snapshot_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query databases: %w", err)
	}
	defer rows.Close()
	ret := []model.DatabaseRecord{}
	for rows.Next() {
		var record model.DatabaseRecord
		if err := rows.Scan(&record.Code, &record.Name, &record.Description); err != nil {
			return nil, fmt.Errorf("failed to scan database: %w", err)
		}
		ret = append(ret, record)
	}
	return ret, rows.Err()
}

func (s *Service) loadRegistries(ctx context.Context, id string) (map[string][]model.RegistryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT database_code, code, label, category FROM registries WHERE snapshot_id = ? ORDER BY database_code, position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query registries: %w", err)
	}
	defer rows.Close()
	ret := map[string][]model.RegistryRecord{}
	for rows.Next() {
		var databaseCode string
		var record model.RegistryRecord
		if err := rows.Scan(&databaseCode, &record.Code, &record.Label, &record.Category); err != nil {
			return nil, fmt.Errorf("failed to scan registry: %w", err)
		}
		ret[databaseCode] = append(ret[databaseCode], record)
	}
	return ret, rows.Err()
}

// Delete removes a snapshot and all of its rows.
func (s *Service) Delete(ctx context.Context, id string) (err error) {
	if id == "" {
		return dao.ErrInvalidID
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("failed to check snapshot: %w", err)
	}
	if count == 0 {
		err = fmt.Errorf("%w: snapshot %s", dao.ErrNotFound, id)
		return err
	}
	if err = deleteRows(ctx, tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List loads every stored snapshot ordered by id.
func (s *Service) List(ctx context.Context) ([]*model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM snapshots ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	ret := make([]*model.Snapshot, 0, len(ids))
	for _, id := range ids {
		snapshot, err := s.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		ret = append(ret, snapshot)
	}
	return ret, nil
}

func deleteRows(ctx context.Context, tx *sql.Tx, id string) error {
	for _, stmt := range []string{
		`DELETE FROM registries WHERE snapshot_id = ?`,
		`DELETE FROM databases WHERE snapshot_id = ?`,
		`DELETE FROM snapshots WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to clear snapshot %s: %w", id, err)
		}
	}
	return nil
}
