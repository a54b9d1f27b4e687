package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mailscope/internal/model"
)

// PrimaryKeyColumn is the key column of every row table.
const PrimaryKeyColumn = "id"

// Store upserts decoded rows into Postgres and keeps indexer checkpoints.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens a connection pool for dsn.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates every row table and the checkpoint table if missing.
func (s *Store) EnsureSchema(ctx context.Context, tables []model.TableSchema) error {
	batch := &pgx.Batch{}
	for _, table := range tables {
		batch.Queue(createTableSQL(table))
	}
	batch.Queue(`
		CREATE TABLE IF NOT EXISTS indexer_state (
			name TEXT PRIMARY KEY,
			last_processed_slot BIGINT NOT NULL,
			run_id TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, table := range tables {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("create table %s: %w", table.Name, err)
		}
	}
	if _, err := br.Exec(); err != nil {
		return fmt.Errorf("create table indexer_state: %w", err)
	}
	return nil
}

// PutRows upserts rows by primary key. Replaying a batch leaves the tables unchanged.
func (s *Store) PutRows(ctx context.Context, rows []model.DatabaseRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		if row.Table == "" || row.PK == "" {
			return fmt.Errorf("row without table or key: %+v", row)
		}
		batch.Queue(upsertSQL(row), rowArgs(row)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, row := range rows {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert %s %s: %w", row.Table, row.PK, err)
		}
	}
	return nil
}

// LoadState returns the checkpoint stored under name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, string, bool, error) {
	if name == "" {
		return 0, "", false, fmt.Errorf("state name required")
	}
	var (
		slot  int64
		runID string
	)
	row := s.pool.QueryRow(ctx, `SELECT last_processed_slot, run_id FROM indexer_state WHERE name=$1`, name)
	if err := row.Scan(&slot, &runID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, "", false, nil
		}
		return 0, "", false, err
	}
	return uint64(slot), runID, true, nil
}

// SaveState upserts the checkpoint stored under name.
func (s *Store) SaveState(ctx context.Context, name string, slot uint64, runID string) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO indexer_state (name, last_processed_slot, run_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_slot = EXCLUDED.last_processed_slot, run_id = EXCLUDED.run_id, updated_at = now()
	`, name, int64(slot), runID)
	return err
}

// nulEscape replaces U+0000, which Postgres TEXT rejects, with its escaped spelling.
var nulEscape = strings.NewReplacer("\x00", `\u0000`)

// rowArgs returns the key followed by column values, in upsertSQL parameter order.
func rowArgs(row model.DatabaseRow) []any {
	args := make([]any, 0, len(row.Columns)+1)
	args = append(args, row.PK)
	for _, col := range row.Columns {
		args = append(args, nulEscape.Replace(col.Value))
	}
	return args
}

func createTableSQL(table model.TableSchema) string {
	defs := make([]string, 0, len(table.Columns)+1)
	defs = append(defs, pgx.Identifier{PrimaryKeyColumn}.Sanitize()+" TEXT PRIMARY KEY")
	for _, col := range table.Columns {
		defs = append(defs, pgx.Identifier{col}.Sanitize()+" TEXT NOT NULL DEFAULT ''")
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{table.Name}.Sanitize(), strings.Join(defs, ", "))
}

func upsertSQL(row model.DatabaseRow) string {
	cols := make([]string, 0, len(row.Columns)+1)
	params := make([]string, 0, len(row.Columns)+1)
	updates := make([]string, 0, len(row.Columns))

	cols = append(cols, pgx.Identifier{PrimaryKeyColumn}.Sanitize())
	params = append(params, "$1")
	for i, col := range row.Columns {
		name := pgx.Identifier{col.Name}.Sanitize()
		cols = append(cols, name)
		params = append(params, fmt.Sprintf("$%d", i+2))
		updates = append(updates, name+" = EXCLUDED."+name)
	}

	conflict := "DO NOTHING"
	if len(updates) > 0 {
		conflict = "DO UPDATE SET " + strings.Join(updates, ", ")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) %s",
		pgx.Identifier{row.Table}.Sanitize(),
		strings.Join(cols, ", "),
		strings.Join(params, ", "),
		pgx.Identifier{PrimaryKeyColumn}.Sanitize(),
		conflict,
	)
}
