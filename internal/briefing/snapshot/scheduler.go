// Package snapshot copies stored briefings to dated JSON files on a schedule.
// Snapshots are only ever added; nothing here deletes a file.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
)

// DefaultSchedule runs every night at 00:00 (seconds field first)
const DefaultSchedule = "0 0 0 * * *"

type Scheduler struct {
	store repository.Gateway
	dir   string
	keys  []string
	now   func() time.Time
	cron  *cron.Cron
}

func NewScheduler(store repository.Gateway, dir string, keys ...string) *Scheduler {
	return &Scheduler{
		store: store,
		dir:   dir,
		keys:  keys,
		now:   time.Now,
		cron:  cron.New(cron.WithSeconds()),
	}
}

// Start registers the snapshot job on schedule and starts the cron runner
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			log.Printf("[error] operation=snapshot.run error=%v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	log.Printf("[info] operation=snapshot.start schedule=%q dir=%s", schedule, s.dir)
	s.cron.Start()
	return nil
}

// Stop halts the runner and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce snapshots every configured key and returns the files written.
// Keys with no stored record are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	var written []string
	for _, key := range s.keys {
		rec, found, err := s.store.Fetch(ctx, key)
		if err != nil {
			return written, fmt.Errorf("failed to fetch %s: %w", key, err)
		}
		if !found {
			log.Printf("[info] operation=snapshot.run key=%s message=no stored record", key)
			continue
		}

		at := s.now().UTC()
		path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", key, at.Format("20060102T150405Z")))
		data, err := json.MarshalIndent(domain.Envelope{LastUpdated: at, Data: rec}, "", "  ")
		if err != nil {
			return written, fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write snapshot: %w", err)
		}
		written = append(written, path)
	}

	log.Printf("[info] operation=snapshot.run files=%d", len(written))
	return written, nil
}
