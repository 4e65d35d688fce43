package repository

import (
	"context"
	"strings"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
)

// Gateway persists whole client records by key.
//
// Store overwrites any prior record for key in full and is safe to repeat.
// Fetch reports found=false for a key that was never stored. Errors are
// returned as-is and never retried here.
type Gateway interface {
	Store(ctx context.Context, key string, rec domain.ClientRecord) error
	Fetch(ctx context.Context, key string) (domain.ClientRecord, bool, error)
}

// Pinger is implemented by backends that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ Pinger = (*FileStore)(nil)
	_ Pinger = (*RedisStore)(nil)
	_ Pinger = (*PostgresStore)(nil)
	_ Pinger = (*FirestoreStore)(nil)
	_ Pinger = (*RemoteStore)(nil)
)

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return domain.ErrEmptyRecordKey
	}
	return nil
}
