package queue

import (
	"context"
	"iter"
)

// Queue is a broadcast queue: every listener sees every event pushed after it joined.
type Queue[X any] interface {
	// Push adds more events to the queue.
	// Events pushed while there are no listeners are dropped.
	// Returns true if any listener was joined at the time.
	Push(all ...X) bool

	// Join returns a listener that provides all events passed with Push after this call completes.
	// If the context is cancelled, the listener becomes invalid and returns no/empty values.
	Join(ctx context.Context) Listener[X]
}

type Listener[X any] interface {
	// Next waits for and returns the next queue event.
	// It returns the zero X and false if this listener is invalid/cancelled context.
	Next() (X, bool)

	// Batch waits for and returns a slice of all available queue events.
	// If the slice has zero-length, this listener is invalid/cancelled context.
	Batch() []X

	// Iter yields events until the listener is cancelled.
	Iter() iter.Seq[X]

	// Context returns the context passed to Join.
	Context() context.Context
}
