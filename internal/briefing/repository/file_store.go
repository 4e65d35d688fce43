package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// FileStore keeps every record in one JSON document, keyed by username:
// {"<key>": {"lastUpdated": ..., "data": {...}}}
type FileStore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewFileStore creates the database file with an empty object if it is missing
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("DB_FILE is required")
	}
	s := &FileStore{path: path, now: time.Now}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.writeAll(map[string]domain.Envelope{}); err != nil {
			return nil, fmt.Errorf("failed to create database file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat database file: %w", err)
	}
	return s, nil
}

// Store writes rec under key, replacing the previous envelope
func (s *FileStore) Store(ctx context.Context, key string, rec domain.ClientRecord) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.readAll()
	if err != nil {
		return err
	}
	rec.Normalize()
	db[key] = domain.Envelope{LastUpdated: s.now().UTC(), Data: rec}
	if err := s.writeAll(db); err != nil {
		return fmt.Errorf("failed to write database file: %w", err)
	}
	return nil
}

// Fetch reads the record stored under key
func (s *FileStore) Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error) {
	if err := validKey(key); err != nil {
		return domain.ClientRecord{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ClientRecord{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.readAll()
	if err != nil {
		return domain.ClientRecord{}, false, err
	}
	env, ok := db[key]
	if !ok {
		return domain.ClientRecord{}, false, nil
	}
	env.Data.Normalize()
	return env.Data, true, nil
}

// Ping checks that the database file is readable
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.path)
	return err
}

// readAll returns an empty database when the file holds malformed JSON. The
// malformed file is moved aside first so the next write cannot destroy it.
func (s *FileStore) readAll() (map[string]domain.Envelope, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.Envelope{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read database file: %w", err)
	}
	db := map[string]domain.Envelope{}
	if err := json.Unmarshal(raw, &db); err != nil {
		aside := s.corruptPath()
		if rerr := os.Rename(s.path, aside); rerr != nil {
			return nil, fmt.Errorf("malformed database file %s could not be moved aside: %w", s.path, rerr)
		}
		log.Printf("[warn] operation=file_store.read path=%s malformed database moved to %s, treating as empty: %v", s.path, aside, err)
		return map[string]domain.Envelope{}, nil
	}
	return db, nil
}

func (s *FileStore) corruptPath() string {
	return s.path + ".corrupt-" + s.now().UTC().Format("20060102T150405.000000000Z")
}

func (s *FileStore) writeAll(db map[string]domain.Envelope) error {
	body, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".briefing-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
