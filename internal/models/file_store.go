package models

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const DefaultEventsFile = "./events.json"

// FileStore keeps the collection as one JSON array in a file. Every write
// replaces the file atomically.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultEventsFile
	}
	return &FileStore{path: path}
}

func (fs *FileStore) ReadAll(ctx context.Context) (Events, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return Events{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fs.path, err)
	}
	return decodeEvents(data)
}

func (fs *FileStore) WriteAll(ctx context.Context, events Events) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeEvents(events)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write events: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", fs.path, err)
	}
	return nil
}

func decodeEvents(data []byte) (Events, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Events{}, nil
	}
	var events Events
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("malformed events data: %w", err)
	}
	out := make(Events, 0, len(events))
	for _, ev := range events {
		if ev == nil {
			continue
		}
		if ev.Attendees == nil {
			ev.Attendees = []Attendee{}
		}
		out = append(out, ev)
	}
	return out, nil
}

func encodeEvents(events Events) ([]byte, error) {
	if events == nil {
		events = Events{}
	}
	data, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to encode events: %w", err)
	}
	return data, nil
}
