package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce(t *testing.T) {
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	rec := domain.BlankRecord()
	rec.ProjectOne.WhyUs.Duration = "60s"
	require.NoError(t, store.Store(context.Background(), "amirsoofi", rec))

	dir := filepath.Join(t.TempDir(), "snapshots")
	s := NewScheduler(store, dir, "amirsoofi", "nobody")
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	files, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "amirsoofi-20260301T000000Z.json"), files[0])

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var env domain.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Equal(t, rec, env.Data)

	// a later run adds a file and keeps the earlier one
	s.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) }
	_, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(nil, t.TempDir())
	assert.Error(t, s.Start("not a schedule"))
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(nil, t.TempDir())
	require.NoError(t, s.Start(""))
	s.Stop()
}
