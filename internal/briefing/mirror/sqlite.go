package mirror

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS local_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
`

const opTimeout = 2 * time.Second

// SQLite is a key/value mirror in a local SQLite file, one row per
// "backup_<identity>" key holding the JSON-serialized record.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the mirror database at path
func OpenSQLite(path string) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("MIRROR_PATH is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite mirror: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite mirror: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create mirror schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (m *SQLite) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Write stores rec under the identity's backup key. Errors are logged only.
func (m *SQLite) Write(identityKey string, rec domain.ClientRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		log.Printf("[warn] operation=mirror.write key=%s marshal failed: %v", identityKey, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		StorageKey(identityKey), string(data), time.Now().UTC().UnixMilli())
	if err != nil {
		log.Printf("[warn] operation=mirror.write key=%s write failed: %v", identityKey, err)
	}
}

// Read returns the mirrored record. Missing or malformed content is absent.
func (m *SQLite) Read(identityKey string) (domain.ClientRecord, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, StorageKey(identityKey)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ClientRecord{}, false
	}
	if err != nil {
		log.Printf("[warn] operation=mirror.read key=%s read failed: %v", identityKey, err)
		return domain.ClientRecord{}, false
	}

	var rec domain.ClientRecord
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		log.Printf("[warn] operation=mirror.read key=%s malformed backup, ignoring: %v", identityKey, err)
		return domain.ClientRecord{}, false
	}
	rec.Normalize()
	return rec, true
}

// put stores a raw value; tests use it to plant malformed content
func (m *SQLite) put(key, value string) error {
	_, err := m.db.Exec(`INSERT OR REPLACE INTO local_storage (key, value, updated_at) VALUES (?, ?, 0)`, key, value)
	return err
}
