package repository_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motion-studio/briefing-backend/internal/briefing/domain"
	briefinghttp "github.com/motion-studio/briefing-backend/internal/briefing/http"
	"github.com/motion-studio/briefing-backend/internal/briefing/repository"
)

func sampleRecord() domain.ClientRecord {
	rec := domain.BlankRecord()
	rec.ProjectOne.WhyUs.Duration = "60s"
	rec.ProjectOne.Exclusive.AllowComparisons = true
	rec.ProjectTwo = []domain.ChallengeRow{
		{ID: "1700000000001", Name: "Flood", Problem: "Site under water", Strategy: "Pumps", BridgeSentence: domain.DefaultBridgeSentence},
		{ID: "1700000000002", Name: "Landslide", Result: "Road reopened in 3 days"},
	}
	rec.ProjectThree = []domain.IconRow{
		{ID: "1700000000003", Title: "Speed", Elements: "stopwatch", ActionType: domain.ActionOnce, Link: "/about"},
	}
	return rec
}

// runGatewayContract checks the behaviour every backend must share
func runGatewayContract(t *testing.T, gw repository.Gateway) {
	ctx := context.Background()

	t.Run("fetch of unknown key is absent, not an error", func(t *testing.T) {
		_, found, err := gw.Fetch(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("round trip is deep-equal", func(t *testing.T) {
		rec := sampleRecord()
		require.NoError(t, gw.Store(ctx, "amirsoofi", rec))

		got, found, err := gw.Fetch(ctx, "amirsoofi")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, rec, got)
	})

	t.Run("store is idempotent", func(t *testing.T) {
		rec := sampleRecord()
		require.NoError(t, gw.Store(ctx, "repeat", rec))
		require.NoError(t, gw.Store(ctx, "repeat", rec))

		got, found, err := gw.Fetch(ctx, "repeat")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, rec, got)
	})

	t.Run("store overwrites in full", func(t *testing.T) {
		require.NoError(t, gw.Store(ctx, "overwrite", sampleRecord()))

		smaller := domain.BlankRecord()
		smaller.ProjectOne.WhatWeDo.Workflow = "linear"
		require.NoError(t, gw.Store(ctx, "overwrite", smaller))

		got, found, err := gw.Fetch(ctx, "overwrite")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, smaller, got)
		assert.Empty(t, got.ProjectOne.WhyUs.Duration)
	})

	t.Run("keys are isolated", func(t *testing.T) {
		_, found, err := gw.Fetch(ctx, "amirsoofi-2")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		assert.ErrorIs(t, gw.Store(ctx, " ", sampleRecord()), domain.ErrEmptyRecordKey)
	})
}

func TestFileStore_Contract(t *testing.T) {
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)
	runGatewayContract(t, store)
}

func TestFileStore_MalformedFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store, err := repository.NewFileStore(path)
	require.NoError(t, err)

	_, found, err := store.Fetch(context.Background(), "amirsoofi")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Store(context.Background(), "amirsoofi", sampleRecord()))
	_, found, err = store.Fetch(context.Background(), "amirsoofi")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFileStore_MalformedFileIsKeptAside(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"amirsoofi": {"data": {"projectOne"`), 0o644))

	store, err := repository.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(context.Background(), "arshia", sampleRecord()))

	aside, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, aside, 1)
	raw, err := os.ReadFile(aside[0])
	require.NoError(t, err)
	assert.Equal(t, `{"amirsoofi": {"data": {"projectOne"`, string(raw))

	_, found, err := store.Fetch(context.Background(), "arshia")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestFileStore_WritesEnvelope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	store, err := repository.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Store(context.Background(), "amirsoofi", sampleRecord()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastUpdated"`)
	assert.Contains(t, string(raw), `"data"`)
	assert.Contains(t, string(raw), `"amirsoofi"`)
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func TestRedisStore_Contract(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	runGatewayContract(t, repository.NewRedisStore(client))
}

func TestRedisStore_MalformedValueIsAbsent(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	require.NoError(t, mr.Set("briefing:record:amirsoofi", "garbage"))

	_, found, err := repository.NewRedisStore(client).Fetch(context.Background(), "amirsoofi")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_TransportErrorSurfaces(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	mr.Close()

	store := repository.NewRedisStore(client)
	assert.Error(t, store.Store(context.Background(), "amirsoofi", sampleRecord()))
	_, _, err := store.Fetch(context.Background(), "amirsoofi")
	assert.Error(t, err)
}

func TestRemoteStore_Contract(t *testing.T) {
	gin.SetMode(gin.TestMode)

	backing, err := repository.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)

	router := gin.New()
	briefinghttp.NewGatewayHandler(backing).Register(router.Group("/api"))
	srv := httptest.NewServer(router)
	defer srv.Close()

	runGatewayContract(t, repository.NewRemoteStore(srv.URL, ""))
}

func TestRemoteStore_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	store := repository.NewRemoteStore(url, "")
	err := store.Store(context.Background(), "amirsoofi", sampleRecord())

	var saveErr *domain.SaveError
	require.ErrorAs(t, err, &saveErr)
	assert.NotEmpty(t, saveErr.Message)

	_, found, err := store.Fetch(context.Background(), "amirsoofi")
	assert.Error(t, err)
	assert.False(t, found)
}

// Skips unless TEST_DB_DSN points at a disposable database
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `delete from briefing_records`)
	require.NoError(t, err)

	runGatewayContract(t, store)
}

func newEmulatorStore(t *testing.T, host string) *repository.FirestoreStore {
	t.Helper()
	t.Setenv("FIRESTORE_EMULATOR_HOST", host)
	client, err := firestore.NewClient(context.Background(), "briefing-test")
	require.NoError(t, err)
	store := repository.NewFirestoreStore(client, "briefings-"+time.Now().UTC().Format("150405.000000000"))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestFirestoreStore_PingUnreachable(t *testing.T) {
	store := newEmulatorStore(t, "127.0.0.1:1")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, store.Ping(ctx))
}

// Skips unless FIRESTORE_EMULATOR_HOST points at a running emulator
func TestFirestoreStore_Contract(t *testing.T) {
	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set, skipping Firestore integration test")
	}
	store := newEmulatorStore(t, host)

	require.NoError(t, store.Ping(context.Background()))
	runGatewayContract(t, store)
}
