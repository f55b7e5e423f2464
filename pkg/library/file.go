package library

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/tile"
)

const fileVersion = 1

type fileDocument struct {
	Version int            `json:"version"`
	Tiles   []tile.RawTile `json:"tiles"`
}

// FileStore keeps the library as one JSON document.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore creates a store backed by the JSON file at path. The file is
// created on the first write.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create library dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) List(ctx context.Context) (tiles []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "file", "list", start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *FileStore) Add(ctx context.Context, tiles ...tile.RawTile) (added []tile.RawTile, err error) {
	defer func(start time.Time) { observe(ctx, "file", "add", start, err) }(time.Now())

	added, err = prepare(tiles)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := s.save(append(current, added...)); err != nil {
		return nil, err
	}
	return added, nil
}

func (s *FileStore) SetBusyness(ctx context.Context, id string, busyness int) (err error) {
	defer func(start time.Time) { observe(ctx, "file", "update", start, err) }(time.Now())

	if err := errors.ValidateBusyness(busyness); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tiles, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(tiles, func(t tile.RawTile) bool { return t.ID == id })
	if i < 0 {
		return notFound(id)
	}
	tiles[i].Busyness = busyness
	return s.save(tiles)
}

func (s *FileStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "file", "delete", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	tiles, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(tiles, func(t tile.RawTile) bool { return t.ID == id })
	if i < 0 {
		return notFound(id)
	}
	return s.save(slices.Delete(tiles, i, i+1))
}

func (s *FileStore) Clear(ctx context.Context) (err error) {
	defer func(start time.Time) { observe(ctx, "file", "clear", start, err) }(time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return storageError(err, "clear")
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the library file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() ([]tile.RawTile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []tile.RawTile{}, nil
	}
	if err != nil {
		return nil, storageError(err, "read")
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse library %s", s.path)
	}
	if doc.Tiles == nil {
		doc.Tiles = []tile.RawTile{}
	}
	return doc.Tiles, nil
}

func (s *FileStore) save(tiles []tile.RawTile) error {
	data, err := json.MarshalIndent(fileDocument{Version: fileVersion, Tiles: tiles}, "", "  ")
	if err != nil {
		return storageError(err, "marshal")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tiles-*.json")
	if err != nil {
		return storageError(err, "write")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageError(err, "write")
	}
	if err := tmp.Close(); err != nil {
		return storageError(err, "write")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storageError(err, "write")
	}
	return nil
}

var _ Store = (*FileStore)(nil)
