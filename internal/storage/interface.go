package storage

import (
	"context"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// StateRepository owns the durable singleton AppState record. Every
// method returns a deep copy; mutations go through Update so read-
// modify-write cycles never interleave.
type StateRepository interface {
	// State returns the current durable state, materializing defaults
	// on first access.
	State(ctx context.Context) (*internal.AppState, error)

	// Update applies mutate to a deep clone of the current state and
	// commits the result atomically, returning the committed state.
	Update(ctx context.Context, mutate func(*internal.AppState)) (*internal.AppState, error)

	// Export serializes the full state as pretty-printed JSON.
	Export(ctx context.Context) ([]byte, error)

	// Import validates raw JSON (numeric schemaVersion required),
	// merges it onto defaults field-by-field and commits it.
	Import(ctx context.Context, raw []byte) (*internal.AppState, error)

	// Reset restores compiled-in defaults. Destructive.
	Reset(ctx context.Context) (*internal.AppState, error)

	Close() error
}
