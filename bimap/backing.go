package bimap

import (
	"iter"
	"maps"

	"github.com/samthor/bimultimap/aatree"
)

// Backing is the associative container used for both indices and their buckets.
// Keys are unique by equality (or by the compare function, for ordered backings).
type Backing[K comparable, V any] interface {
	Get(K) (V, bool)
	Has(K) bool

	// Put stores the value, returning true if the key was new.
	Put(K, V) bool

	// Delete removes the key, returning its prior value.
	Delete(K) (V, bool)

	Len() int

	// Min returns the first entry in the container's own order.
	Min() (K, V, bool)

	// All yields every entry in the container's own order.
	All() iter.Seq2[K, V]

	Keys() iter.Seq[K]

	// Clear removes every entry.
	Clear()
}

// CompareFunc orders values of one side of an ordered Multi.
// It returns a negative number if a < b, zero if equal, and a positive number if a > b.
type CompareFunc[T any] func(a, b T) int

type hashBacking[K comparable, V any] map[K]V

func (h hashBacking[K, V]) Get(k K) (v V, ok bool) {
	v, ok = h[k]
	return
}

func (h hashBacking[K, V]) Has(k K) bool {
	_, ok := h[k]
	return ok
}

func (h hashBacking[K, V]) Put(k K, v V) bool {
	_, had := h[k]
	h[k] = v
	return !had
}

func (h hashBacking[K, V]) Delete(k K) (v V, ok bool) {
	v, ok = h[k]
	if ok {
		delete(h, k)
	}
	return
}

func (h hashBacking[K, V]) Len() int {
	return len(h)
}

// Min returns whichever entry the map yields first.
func (h hashBacking[K, V]) Min() (k K, v V, ok bool) {
	for k, v = range h {
		return k, v, true
	}
	return
}

func (h hashBacking[K, V]) All() iter.Seq2[K, V] {
	return maps.All(h)
}

func (h hashBacking[K, V]) Keys() iter.Seq[K] {
	return maps.Keys(h)
}

func (h hashBacking[K, V]) Clear() {
	clear(h)
}

// newBacking returns a hash backing, or an ordered one if compare is non-nil.
func newBacking[K comparable, V any](compare CompareFunc[K]) Backing[K, V] {
	if compare == nil {
		return hashBacking[K, V]{}
	}
	return aatree.New[K, V](aatree.CompareFunc[K](compare))
}
