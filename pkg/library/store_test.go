package library

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/observability"
	"github.com/matzehuels/truchet/pkg/tile"
)

func sampleTiles() []tile.RawTile {
	return []tile.RawTile{
		{FileName: "arc.svg", Content: `<svg viewBox="0 0 24 24"/>`, Busyness: 3},
		{FileName: "cross.svg", Content: `<svg viewBox="0 0 24 24"/>`, Busyness: 10},
		{FileName: "dots.svg", Content: `<svg viewBox="0 0 24 24"/>`, Busyness: 0},
	}
}

// stores returns every backend that can run in this environment.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	fs, err := NewFileStore(filepath.Join(dir, "lib", "tiles.json"))
	require.NoError(t, err)
	sq, err := NewSQLiteStore(filepath.Join(dir, "tiles.db"))
	require.NoError(t, err)

	out := map[string]Store{"file": fs, "sqlite": sq}

	if uri := os.Getenv("TRUCHET_TEST_MONGO_URI"); uri != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ms, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "truchet_test", Collection: "tiles_" + filepath.Base(dir)})
		require.NoError(t, err)
		out["mongo"] = ms
	}

	t.Cleanup(func() {
		for _, s := range out {
			_ = s.Clear(context.Background())
			assert.NoError(t, s.Close())
		}
	})
	return out
}

func TestStoreAddAndList(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, empty)

			first, err := s.Add(ctx, sampleTiles()[:2]...)
			require.NoError(t, err)
			require.Len(t, first, 2)
			second, err := s.Add(ctx, sampleTiles()[2])
			require.NoError(t, err)

			for _, tl := range append(first, second...) {
				assert.Len(t, tl.ID, 36, "IDs are UUIDs")
			}
			assert.NotEqual(t, first[0].ID, first[1].ID)

			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, []string{"arc.svg", "cross.svg", "dots.svg"},
				[]string{got[0].FileName, got[1].FileName, got[2].FileName})
			assert.Equal(t, first[0].ID, got[0].ID)
			assert.Equal(t, 10, got[1].Busyness)
			assert.Equal(t, `<svg viewBox="0 0 24 24"/>`, got[2].Content)
		})
	}
}

func TestStoreSetBusyness(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			added, err := s.Add(ctx, sampleTiles()...)
			require.NoError(t, err)

			require.NoError(t, s.SetBusyness(ctx, added[1].ID, 2))
			got, err := s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, got[1].Busyness)
			assert.Equal(t, 3, got[0].Busyness, "other tiles untouched")

			err = s.SetBusyness(ctx, added[1].ID, 11)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidBusyness), "got %v", err)

			err = s.SetBusyness(ctx, "missing", 4)
			assert.True(t, errors.Is(err, errors.ErrCodeTileNotFound), "got %v", err)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			added, err := s.Add(ctx, sampleTiles()...)
			require.NoError(t, err)

			require.NoError(t, s.Delete(ctx, added[1].ID))
			got, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "arc.svg", got[0].FileName)
			assert.Equal(t, "dots.svg", got[1].FileName)

			err = s.Delete(ctx, added[1].ID)
			assert.True(t, errors.Is(err, errors.ErrCodeTileNotFound), "got %v", err)

			// positions keep growing after a delete
			more, err := s.Add(ctx, tile.New("late.svg", "<svg/>"))
			require.NoError(t, err)
			got, err = s.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, more[0].ID, got[len(got)-1].ID)

			require.NoError(t, s.Clear(ctx))
			got, err = s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
			require.NoError(t, s.Clear(ctx), "clearing twice is fine")
		})
	}
}

func TestStoreRejectsInvalidTiles(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Add(ctx, tile.RawTile{FileName: "", Content: "<svg/>"})
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "blank name: %v", err)

			_, err = s.Add(ctx, tile.RawTile{FileName: "ok.svg", Busyness: -1})
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidBusyness), "busyness: %v", err)

			got, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, got, "a rejected batch adds nothing")
		})
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tiles.json")

	a, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = a.Add(ctx, sampleTiles()...)
	require.NoError(t, err)

	b, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, path, b.Path())
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = s.List(context.Background())
	assert.True(t, errors.Is(err, errors.ErrCodeStorage), "got %v", err)
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tiles.db")

	a, err := NewSQLiteStore(path)
	require.NoError(t, err)
	_, err = a.Add(ctx, sampleTiles()...)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer b.Close()
	got, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

type recordingHooks struct {
	observability.NoopStoreHooks
	mu  sync.Mutex
	ops []string
}

func (h *recordingHooks) OnStoreOp(_ context.Context, backend, op string, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ops = append(h.ops, backend+":"+op)
}

func TestStoreHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	s, err := NewFileStore(filepath.Join(t.TempDir(), "tiles.json"))
	require.NoError(t, err)
	ctx := context.Background()
	_, _ = s.Add(ctx, sampleTiles()...)
	_, _ = s.List(ctx)
	_ = s.Clear(ctx)

	assert.Equal(t, []string{"file:add", "file:list", "file:clear"}, hooks.ops)
}
