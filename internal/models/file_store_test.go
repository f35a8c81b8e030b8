package models

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "events.json"))

	events, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.json")
	store := NewFileStore(path)

	at := time.Date(2030, time.May, 1, 19, 0, 0, 0, time.UTC)
	ev := sampleEvent("a", 7, at)
	ev.Attendees = []Attendee{{User: User{ID: 9, FirstName: "Bo"}, Donated: true}}
	require.NoError(t, store.WriteAll(ctx, Events{ev}))

	loaded, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a", loaded[0].ID)
	assert.True(t, loaded[0].DateTime.Equal(at))
	assert.Equal(t, int64(7), loaded[0].Owner.ID)
	require.Len(t, loaded[0].Attendees, 1)
	assert.True(t, loaded[0].Attendees[0].Donated)
	assert.Equal(t, "Bo", loaded[0].Attendees[0].FirstName)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).ReadAll(context.Background())
	assert.Error(t, err)
}

func TestFileStoreNullEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`[null, {"id":"a","name":"x"}, null]`), 0o644))

	events, err := NewFileStore(path).ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
	assert.NotNil(t, events[0].Attendees)

	require.NoError(t, os.WriteFile(path, []byte(`[null]`), 0o644))
	repo := NewEventRepo(NewFileStore(path), testLogger(), nil)
	assert.NotPanics(t, func() {
		assert.Empty(t, repo.LoadAll(context.Background()))
	})
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	events, err := NewFileStore(path).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}
