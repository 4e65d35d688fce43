package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

const briefingSchema = `
create table if not exists briefing_records (
	record_key   text primary key,
	last_updated timestamptz not null,
	data         jsonb not null
);
`

// PostgresStore keeps one row per client with the record as JSONB
type PostgresStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// EnsureSchema creates the records table if it does not exist
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, briefingSchema); err != nil {
		return fmt.Errorf("create briefing_records: %w", err)
	}
	return nil
}

func (r *PostgresStore) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	rec.Normalize()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	const q = `
insert into briefing_records (record_key, last_updated, data)
values ($1, $2, $3::jsonb)
on conflict (record_key) do update
set last_updated = excluded.last_updated, data = excluded.data;
`
	if _, err := r.db.Exec(ctx, q, key, r.now().UTC(), string(data)); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

func (r *PostgresStore) Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error) {
	if err := validKey(key); err != nil {
		return domain.ClientRecord{}, false, err
	}

	const q = `select data from briefing_records where record_key = $1;`
	var data []byte
	err := r.db.QueryRow(ctx, q, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ClientRecord{}, false, nil
	}
	if err != nil {
		return domain.ClientRecord{}, false, fmt.Errorf("failed to get record: %w", err)
	}

	var rec domain.ClientRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		log.Printf("[warn] operation=postgres_store.fetch key=%s malformed record, treating as absent: %v", key, err)
		return domain.ClientRecord{}, false, nil
	}
	rec.Normalize()
	return rec, true, nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
