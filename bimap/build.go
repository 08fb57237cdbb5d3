package bimap

import (
	"iter"
)

// Pair is a single association.
type Pair[L, R comparable] struct {
	Left  L `json:"l"`
	Right R `json:"r"`
}

// FromSeq builds a hash-backed Multi by inserting each pair in order.
func FromSeq[L, R comparable](seq iter.Seq2[L, R]) *Multi[L, R] {
	m := New[L, R]()
	m.Extend(seq)
	return m
}

// FromPairs builds a hash-backed Multi by inserting each pair in order.
func FromPairs[L, R comparable](pairs ...Pair[L, R]) *Multi[L, R] {
	m := New[L, R]()
	for _, p := range pairs {
		m.Insert(p.Left, p.Right)
	}
	return m
}

// FromMap builds a hash-backed Multi from a map of left values to their right values.
func FromMap[L, R comparable](table map[L][]R) *Multi[L, R] {
	m := New[L, R]()
	for l, rs := range table {
		for _, r := range rs {
			m.Insert(l, r)
		}
	}
	return m
}

// Extend inserts every pair from seq, returning how many were new.
func (m *Multi[L, R]) Extend(seq iter.Seq2[L, R]) (added int) {
	m.init()
	for l, r := range seq {
		if m.lv.link(l, nil, r, nil) {
			added++
		}
	}
	return added
}

// Pairs returns every pair as a slice.
func (m *Multi[L, R]) Pairs() (out []Pair[L, R]) {
	out = make([]Pair[L, R], 0, m.Len())
	for l, r := range m.All() {
		out = append(out, Pair[L, R]{Left: l, Right: r})
	}
	return out
}

// ToMap returns every left value mapped to its right values.
func (m *Multi[L, R]) ToMap() (out map[L][]R) {
	m.init()
	out = make(map[L][]R, m.LeftLen())
	for l := range m.Lefts() {
		out[l], _ = m.lv.getSlice(l)
	}
	return out
}

// Clone returns an independent copy with the same backing kind.
// Observers are not copied.
func (m *Multi[L, R]) Clone() *Multi[L, R] {
	m.init()
	out := &Multi[L, R]{}
	out.build(m.lv.own.kcmp, m.lv.own.vcmp)
	out.Extend(m.All())
	return out
}

// Equal returns whether both hold exactly the same pairs.
// A nil other is never equal.
func (m *Multi[L, R]) Equal(other *Multi[L, R]) bool {
	if other == nil || m.Len() != other.Len() {
		return false
	}
	for l, r := range m.All() {
		if !other.Has(l, r) {
			return false
		}
	}
	return true
}
