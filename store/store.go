// Package store is the snapshot persistence layer: key→blob storage for
// room snapshots, keyed by room id. It has no notion of the engine's data
// model beyond "a room id, in, bytes, out" — serialization is the caller's
// job.
package store

import "context"

// ErrNotFound is returned by Load when no snapshot has been saved under
// the given room id (or it was deleted).
type ErrNotFound struct {
	RoomID string
}

func (e *ErrNotFound) Error() string {
	return "store: room " + e.RoomID + " not found"
}

// Store is the contract the room registry and room actor rely on: atomic
// single-key replace, idempotent delete, and enumeration for boot-time
// reconstitution.
type Store interface {
	Save(ctx context.Context, roomID string, blob []byte) error
	Load(ctx context.Context, roomID string) ([]byte, error)
	Delete(ctx context.Context, roomID string) error
	ListActive(ctx context.Context) ([]string, error)
}
