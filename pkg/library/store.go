// Package library persists the user's tile list across sessions.
//
// Three backends implement [Store]: [FileStore] keeps a single JSON document,
// [SQLiteStore] a local database, and [MongoStore] a shared collection. All of
// them keep tiles in insertion order and assign each tile a UUID on [Store.Add].
package library

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/truchet/pkg/errors"
	"github.com/matzehuels/truchet/pkg/observability"
	"github.com/matzehuels/truchet/pkg/tile"
)

// ErrNotFound is the cause of every TILE_NOT_FOUND error returned by a store.
var ErrNotFound = stderrors.New("tile not found")

// Store is an ordered, persistent list of raw tiles.
type Store interface {
	// List returns all tiles in insertion order.
	List(ctx context.Context) ([]tile.RawTile, error)

	// Add appends tiles and returns them with their assigned IDs.
	Add(ctx context.Context, tiles ...tile.RawTile) ([]tile.RawTile, error)

	// SetBusyness updates one tile's busyness.
	SetBusyness(ctx context.Context, id string, busyness int) error

	// Delete removes one tile.
	Delete(ctx context.Context, id string) error

	// Clear removes every tile.
	Clear(ctx context.Context) error

	Close() error
}

// prepare validates tiles for insertion and gives each one a fresh ID.
func prepare(tiles []tile.RawTile) ([]tile.RawTile, error) {
	out := make([]tile.RawTile, len(tiles))
	for i, t := range tiles {
		if err := errors.ValidateTileFileName(t.FileName); err != nil {
			return nil, err
		}
		if err := errors.ValidateBusyness(t.Busyness); err != nil {
			return nil, err
		}
		t.ID = uuid.NewString()
		out[i] = t
	}
	return out, nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeTileNotFound, ErrNotFound, "no tile with id %q", id)
}

func storageError(err error, op string) error {
	if err == nil || errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "library %s", op)
}

// observe reports one operation to the store hooks.
func observe(ctx context.Context, backend, op string, start time.Time, err error) {
	observability.Store().OnStoreOp(ctx, backend, op, time.Since(start), err)
}
