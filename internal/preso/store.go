package preso

import (
	"context"
	"errors"
)

// ErrNotFound indicates an update or delete against an absent record id.
var ErrNotFound = errors.New("preso: not found")

// Store describes persistence for detainee records. The store is the sole
// source of truth; nothing is cached in process.
type Store interface {
	// List returns every record, newest first. Priority ordering is applied
	// by the caller, not the store.
	List(ctx context.Context) ([]Record, error)
	// Insert persists a record; id and created_at are store-assigned.
	Insert(ctx context.Context, p Payload) (Record, error)
	// Update applies a partial payload to an existing record and returns the
	// merged result, or ErrNotFound.
	Update(ctx context.Context, id string, p Payload) (Record, error)
	// Delete removes one record, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// DeleteMany removes records best-effort. It is not atomic: a failure
	// partway leaves earlier deletions in place, and missing ids are not an
	// error.
	DeleteMany(ctx context.Context, ids []string) error
}
