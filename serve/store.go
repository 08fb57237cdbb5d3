package serve

import (
	"context"

	"github.com/samthor/bimultimap/bimap"
	"github.com/samthor/bimultimap/queue"
)

// Store is the shared map behind a Handler, plus a feed of its changes.
type Store struct {
	m       *bimap.Sync[string, string]
	changes queue.Queue[Change]
}

// NewStore wraps the given map, or a new empty one if nil.
// The map must not be used directly afterwards.
func NewStore(m *bimap.Multi[string, string]) *Store {
	s := &Store{
		m:       bimap.NewSync(m),
		changes: queue.New[Change](),
	}
	s.m.Observe(func(c bimap.Change[string, string]) {
		s.changes.Push(Change{Op: c.Op.String(), Left: c.Left, Right: c.Right})
	})
	return s
}

// Map returns the underlying map.
func (s *Store) Map() *bimap.Sync[string, string] {
	return s.m
}

// Watch returns a listener for every change made after this call, until ctx is done.
func (s *Store) Watch(ctx context.Context) queue.Listener[Change] {
	return s.changes.Join(ctx)
}
