package bimap

import (
	"iter"

	xiter "github.com/samthor/bimultimap/iter"
)

// All yields every pair of values.
// Pairs are grouped by left value; no other order is promised unless the Multi is ordered.
// The Multi must not be modified while this is being consumed.
func (m *Multi[L, R]) All() iter.Seq2[L, R] {
	m.init()
	return func(yield func(L, R) bool) {
		for l, r := range m.lv.all() {
			if !yield(l.value, r.value) {
				return
			}
		}
	}
}

// Handles yields every pair as the shared handles held by this Multi.
func (m *Multi[L, R]) Handles() iter.Seq2[*Rc[L], *Rc[R]] {
	m.init()
	return m.lv.all()
}

// Iter returns a one-pass cursor over every pair.
// Call Stop on the cursor if it is abandoned before being exhausted.
func (m *Multi[L, R]) Iter() *xiter.Cursor2[L, R] {
	return xiter.NewCursor2(m.All())
}

// Drain yields every pair's handles and then empties this Multi.
// The Multi is emptied even if the caller stops early.
func (m *Multi[L, R]) Drain() iter.Seq2[*Rc[L], *Rc[R]] {
	m.init()
	return func(yield func(*Rc[L], *Rc[R]) bool) {
		defer m.Clear()

		for l, r := range m.lv.all() {
			if !yield(l, r) {
				return
			}
		}
	}
}
