package store

import (
	"context"
	"errors"

	"imobi/server/internal/models"
)

// Snapshot is the full current list of one partition as of one delivery.
type Snapshot = []models.Property

// Handler receives a snapshot whenever the backing data changes. Handlers
// get their own copy and may keep it.
type Handler func(Snapshot)

// Unsubscribe cancels a subscription. It stops future deliveries but does
// not cancel in-flight mutations. Calling it more than once is safe.
type Unsubscribe func()

// Backend is the storage contract the rest of the system depends on. Both
// implementations conform; which one is active is a configuration choice
// made once at process start.
//
// Every mutation persists, re-stamps LastUpdated and then delivers the
// fresh snapshot to all subscribers. Update fails with ErrNotFound when the
// id does not exist; Remove is a no-op on an unknown id.
type Backend interface {
	// Subscribe registers a handler invoked with the full current list
	// whenever the data changes, starting with one initial delivery.
	// Concurrent subscriptions are independent.
	Subscribe(handler Handler) (Unsubscribe, error)

	// Create persists a new record. The backend assigns the id, stamps
	// LastUpdated and fills defaulted fields; caller-supplied values for
	// those are overwritten.
	Create(ctx context.Context, p models.Property) error

	// Update merges the non-nil patch fields into the existing record and
	// re-stamps LastUpdated.
	Update(ctx context.Context, id string, patch models.Patch) error

	// Remove deletes the record. Removing an absent id succeeds.
	Remove(ctx context.Context, id string) error

	// Clear empties the partition. Destructive and irreversible.
	Clear(ctx context.Context) error

	// RestoreDefaults replaces the partition's contents with the fixed
	// seed set. Destructive and irreversible.
	RestoreDefaults(ctx context.Context) error
}

// Contract errors.
var (
	// ErrNotFound is returned by Update when the id does not exist.
	ErrNotFound = errors.New("property not found")

	// ErrNotConfigured is returned by every operation of a backend that
	// was selected but never configured.
	ErrNotConfigured = errors.New("backend not configured")

	// ErrClosed is returned once the backend has been shut down.
	ErrClosed = errors.New("backend is closed")
)

// DefaultSeed returns the seed set RestoreDefaults writes. It is empty by
// design: a fresh partition starts with nothing.
func DefaultSeed() []models.Property {
	return []models.Property{}
}
