package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/josiasmanzur02/sevenminutes/internal"
)

// PostgresStore keeps the singleton AppState as one jsonb row. The
// read-modify-write cycle runs inside a transaction with a row lock so
// two Update calls never interleave into a lost update.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(dsn string, logger internal.Logger) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	p := &PostgresStore{pool: pool, logger: logger}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	return p, nil
}

func (p *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS app_state (
		id TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	return err
}

func decodeRow(payload []byte) (*internal.AppState, error) {
	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, err
	}
	return mergeOntoDefaults(obj)
}

func (p *PostgresStore) writeTx(ctx context.Context, tx pgx.Tx, st *internal.AppState) error {
	st.ID = internal.StateID
	if st.SchemaVersion == 0 {
		st.SchemaVersion = internal.SchemaVersion
	}
	now := time.Now()
	st.UpdatedAt = &now
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO app_state (id, payload, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = $2, updated_at = $3`,
		internal.StateID, payload, now)
	return err
}

// mutateTx runs one serialized read-modify-write cycle. A nil mutate
// replaces the whole record with replace instead.
func (p *PostgresStore) mutateTx(ctx context.Context, mutate func(*internal.AppState), replace *internal.AppState) (*internal.AppState, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	defer tx.Rollback(ctx)

	var next *internal.AppState
	if replace != nil {
		next = replace
	} else {
		var payload []byte
		err = tx.QueryRow(ctx, `SELECT payload FROM app_state WHERE id = $1 FOR UPDATE`, internal.StateID).Scan(&payload)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			next = internal.DefaultState()
		case err != nil:
			return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
		default:
			next, err = decodeRow(payload)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
			}
		}
		if mutate != nil {
			mutate(next)
		}
	}

	if err := p.writeTx(ctx, tx, next); err != nil {
		p.logger.Errorf("failed to write app state: %v", err)
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	return next.Clone(), nil
}

func (p *PostgresStore) State(ctx context.Context) (*internal.AppState, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM app_state WHERE id = $1`, internal.StateID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		// first access materializes and persists defaults
		return p.mutateTx(ctx, func(*internal.AppState) {}, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	st, err := decodeRow(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrStorageUnavailable, err)
	}
	return st, nil
}

func (p *PostgresStore) Update(ctx context.Context, mutate func(*internal.AppState)) (*internal.AppState, error) {
	return p.mutateTx(ctx, mutate, nil)
}

func (p *PostgresStore) Export(ctx context.Context) ([]byte, error) {
	st, err := p.State(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(st, "", "  ")
}

func (p *PostgresStore) Import(ctx context.Context, raw []byte) (*internal.AppState, error) {
	st, err := decodeImport(raw)
	if err != nil {
		return nil, err
	}
	return p.mutateTx(ctx, nil, st)
}

func (p *PostgresStore) Reset(ctx context.Context) (*internal.AppState, error) {
	return p.mutateTx(ctx, nil, internal.DefaultState())
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ StateRepository = (*PostgresStore)(nil)
