package models

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveAllEvictsPastEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC)
	store := NewMemoryStore()
	repo := NewEventRepo(store, testLogger(), func() time.Time { return now })

	events := Events{
		sampleEvent("yesterday", 1, now.AddDate(0, 0, -1)),
		sampleEvent("today", 1, time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)),
		sampleEvent("later", 2, now.AddDate(0, 1, 0)),
	}

	evicted, err := repo.SaveAll(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, 1, evicted)

	loaded := repo.LoadAll(ctx)
	assert.Equal(t, []string{"today", "later"}, ids(loaded))
	assert.Equal(t, []string{"later"}, ids(repo.LoadOwned(ctx, 2)))
}

func TestSaveAllRejectsInvalidEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	repo := NewEventRepo(store, testLogger(), func() time.Time { return now })

	ev := sampleEvent("a", 1, now.AddDate(0, 0, 1))
	ev.Price = 5
	_, err := repo.SaveAll(ctx, Events{ev}, "a")
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Empty(t, repo.LoadAll(ctx))
}

func TestSaveAllKeepsUntouchedInvalidEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	repo := NewEventRepo(store, testLogger(), func() time.Time { return now })

	legacy := sampleEvent("legacy", 1, now.AddDate(0, 0, 3))
	legacy.Price = 5
	legacy.PaymentLink = "not a link"
	fresh := sampleEvent("fresh", 2, now.AddDate(0, 0, 1))

	_, err := repo.SaveAll(ctx, Events{legacy, fresh}, "fresh")
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh", "legacy"}, ids(repo.LoadAll(ctx)))
}

func TestSaveAllSkipsNilEvents(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepo(NewMemoryStore(), testLogger(), nil)

	_, err := repo.SaveAll(ctx, Events{nil, sampleEvent("a", 1, time.Now().AddDate(0, 1, 0))})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(repo.LoadAll(ctx)))
}

func TestSaveAllStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.WriteErr = errors.New("disk full")
	repo := NewEventRepo(store, testLogger(), nil)

	_, err := repo.SaveAll(ctx, Events{sampleEvent("a", 1, time.Now().AddDate(1, 0, 0))})
	assert.ErrorIs(t, err, ErrSaveFailed)
}

func TestLoadAllReadFailureIsEmpty(t *testing.T) {
	store := NewMemoryStore()
	store.ReadErr = errors.New("boom")
	repo := NewEventRepo(store, testLogger(), nil)

	events := repo.LoadAll(context.Background())
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestMemoryStoreDoesNotShareEvents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ev := sampleEvent("a", 1, time.Now())
	require.NoError(t, store.WriteAll(ctx, Events{ev}))

	ev.Name = "changed"
	loaded, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Picnic a", loaded[0].Name)
}
