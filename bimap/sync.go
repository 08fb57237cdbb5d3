package bimap

import (
	"iter"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

// Sync guards a Multi with a single read/write lock.
// Every mutation updates both sides under the write lock, so readers never see the sides disagree.
// Sets and slices it returns are copies and are safe to keep.
// The zero value wraps an empty hash-backed Multi.
type Sync[L, R comparable] struct {
	once sync.Once
	lock sync.RWMutex
	m    *Multi[L, R]
}

// NewSync wraps the given Multi, or a new hash-backed one if nil.
// The Multi must not be used directly afterwards.
func NewSync[L, R comparable](m *Multi[L, R]) *Sync[L, R] {
	if m == nil {
		m = New[L, R]()
	}
	m.init()
	return &Sync[L, R]{m: m}
}

func (s *Sync[L, R]) init() {
	s.once.Do(func() {
		if s.m == nil {
			s.m = New[L, R]()
		}
	})
}

// Do runs fn with exclusive access to the underlying Multi.
// Use this to make several changes appear as one.
func (s *Sync[L, R]) Do(fn func(m *Multi[L, R])) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	fn(s.m)
}

// View runs fn with shared read access to the underlying Multi.
// fn must not modify it.
func (s *Sync[L, R]) View(fn func(m *Multi[L, R])) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	fn(s.m)
}

// Observe registers fn on the underlying Multi.
// It is called while the write lock is held, so it must not call back into this Sync.
func (s *Sync[L, R]) Observe(fn func(Change[L, R])) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.Observe(fn)
}

func (s *Sync[L, R]) Insert(left L, right R) bool {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.Insert(left, right)
}

func (s *Sync[L, R]) Remove(left L, right R) bool {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.Remove(left, right)
}

func (s *Sync[L, R]) RemoveLeft(left L) (mapset.Set[R], bool) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.RemoveLeft(left)
}

func (s *Sync[L, R]) RemoveRight(right R) (mapset.Set[L], bool) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.RemoveRight(right)
}

func (s *Sync[L, R]) SetLeft(key *Rc[L], values mapset.Set[R]) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.SetLeft(key, values)
}

func (s *Sync[L, R]) SetRight(key *Rc[R], values mapset.Set[L]) {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.SetRight(key, values)
}

func (s *Sync[L, R]) Clear() {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	s.m.Clear()
}

func (s *Sync[L, R]) Has(left L, right R) bool {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Has(left, right)
}

func (s *Sync[L, R]) GetLeft(left L) (mapset.Set[R], bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetLeft(left)
}

func (s *Sync[L, R]) GetRight(right R) (mapset.Set[L], bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetRight(right)
}

func (s *Sync[L, R]) GetOneLeft(left L) (R, bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetOneLeft(left)
}

func (s *Sync[L, R]) GetOneRight(right R) (L, bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetOneRight(right)
}

func (s *Sync[L, R]) GetLeftSlice(left L) ([]R, bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetLeftSlice(left)
}

func (s *Sync[L, R]) GetRightSlice(right R) ([]L, bool) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.GetRightSlice(right)
}

// Len returns the number of distinct pairs.
func (s *Sync[L, R]) Len() int {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Len()
}

// Pairs returns a snapshot of every pair.
func (s *Sync[L, R]) Pairs() []Pair[L, R] {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.Pairs()
}

// All yields every pair while holding the read lock.
// The loop body must not modify this Sync, or it will deadlock.
func (s *Sync[L, R]) All() iter.Seq2[L, R] {
	s.init()
	return func(yield func(L, R) bool) {
		s.lock.RLock()
		defer s.lock.RUnlock()

		for l, r := range s.m.All() {
			if !yield(l, r) {
				return
			}
		}
	}
}

func (s *Sync[L, R]) MarshalJSON() ([]byte, error) {
	s.init()
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.m.MarshalJSON()
}

func (s *Sync[L, R]) UnmarshalJSON(data []byte) error {
	s.init()
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.m.UnmarshalJSON(data)
}
