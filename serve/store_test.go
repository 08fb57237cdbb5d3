package serve

import (
	"context"
	"testing"

	"github.com/samthor/bimultimap/bimap"
	"github.com/stretchr/testify/require"
)

func TestStoreWatch(t *testing.T) {
	m := bimap.New[string, string]()
	m.Insert("before", "x")
	s := NewStore(m)

	ctx, cancel := context.WithCancel(t.Context())
	l := s.Watch(ctx)

	s.Map().Insert("a", "b")
	s.Map().SetLeft(bimap.NewRc("a"), nil)

	c, ok := l.Next()
	require.True(t, ok)
	require.Equal(t, Change{Op: "add", Left: "a", Right: "b"}, c)
	c, _ = l.Next()
	require.Equal(t, Change{Op: "remove", Left: "a", Right: "b"}, c)

	cancel()
	_, ok = l.Next()
	require.False(t, ok)
	require.Equal(t, 1, s.Map().Len())
}
