package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/motion-studio/briefing-backend/config"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
)

// Store is the selected storage backend plus what is needed to check and
// release it
type Store struct {
	Gateway repository.Gateway
	Pinger repository.Pinger
	close  []func() error
}

func (s *Store) Close() error {
	var firstErr error
	for i := len(s.close) - 1; i >= 0; i-- {
		if err := s.close[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenStore builds the gateway backend named by cfg.Storage.Backend
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fs, err := repository.NewFileStore(cfg.Storage.DBFile)
		if err != nil {
			return nil, err
		}
		log.Printf("storage: file %s", cfg.Storage.DBFile)
		return &Store{Gateway: fs, Pinger: fs}, nil

	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		rs := repository.NewRedisStore(client)
		log.Printf("storage: redis %s db=%d", cfg.Redis.Addr, cfg.Redis.DB)
		return &Store{Gateway: rs, Pinger: rs, close: []func() error{client.Close}}, nil

	case config.BackendPostgres:
		pool, err := OpenDB(ctx, DBOptions{DSN: cfg.Database.DSN(), MaxConns: cfg.Database.MaxConns})
		if err != nil {
			return nil, err
		}
		ps := repository.NewPostgresStore(pool)
		if err := ps.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		log.Printf("storage: postgres %s/%s", cfg.Database.Host, cfg.Database.Name)
		return &Store{Gateway: ps, Pinger: ps, close: []func() error{func() error { pool.Close(); return nil }}}, nil

	case config.BackendFirestore:
		client, err := OpenFirestore(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		log.Printf("storage: firestore project=%s collection=%s", cfg.Firebase.ProjectID, cfg.Firebase.Collection)
		fsStore := repository.NewFirestoreStore(client, cfg.Firebase.Collection)
		return &Store{Gateway: fsStore, Pinger: fsStore, close: []func() error{fsStore.Close}}, nil

	case config.BackendRemote:
		rs := repository.NewRemoteStore(cfg.Storage.RemoteURL, cfg.Storage.RemoteKey)
		log.Printf("storage: remote %s", cfg.Storage.RemoteURL)
		return &Store{Gateway: rs, Pinger: rs}, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
