// Package store provides the versioned document store the game engines
// run on: per-document get/put, conditional create, optimistic
// compare-and-swap update, and change subscriptions. Documents are plain
// JSON keyed by (collection, id); the CAS on the version column is the
// only cross-client ordering mechanism.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrExists   = errors.New("document already exists")
	// ErrContention is returned when an Update runs out of retries
	// because the document kept changing under the writer.
	ErrContention = errors.New("document contention: retries exhausted")
	// ErrUnchanged may be returned by a mutator to abort the update
	// without writing and without surfacing an error.
	ErrUnchanged   = errors.New("document unchanged")
	ErrUnavailable = errors.New("store unavailable")
)

// Doc is a raw document together with the version the store assigned to
// the write that produced it.
type Doc struct {
	ID      string
	Data    []byte
	Version int64
}

// Mutator transforms the current document bytes into the next ones. It
// runs inside the CAS loop and therefore may be called more than once;
// it must be pure apart from its inputs.
type Mutator func(current []byte) ([]byte, error)

// Event is a change notification. Deleted events carry no data.
type Event struct {
	Collection string
	ID         string
	Data       []byte
	Version    int64
	Deleted    bool
}

// Store is the document store contract shared by the Postgres
// implementation and the in-memory one used in tests.
type Store interface {
	// Get unmarshals the document into out (which may be nil to probe
	// for existence). Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string, out any) error

	// Put unconditionally writes the document, creating it if needed.
	Put(ctx context.Context, collection, id string, doc any) error

	// Create writes the document only if it does not exist yet.
	// Returns ErrExists otherwise. This is the single-winner primitive
	// for races like lazy boss spawn.
	Create(ctx context.Context, collection, id string, doc any) error

	// Update runs the read-mutate-write cycle with optimistic
	// concurrency control: the write commits only if the document is
	// still at the version that was read. On conflict the whole cycle
	// retries, up to maxRetries times, then returns ErrContention.
	Update(ctx context.Context, collection, id string, maxRetries int, mutate Mutator) error

	// Delete removes the document. Deleting an absent document returns
	// ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	// List returns every document in the collection.
	List(ctx context.Context, collection string) ([]Doc, error)

	// Subscribe registers a callback for changes to one document, or to
	// the whole collection when id is empty. Delivery is asynchronous
	// and unordered; consumers dedupe by id and version.
	Subscribe(collection, id string, fn func(Event)) (unsubscribe func())
}
