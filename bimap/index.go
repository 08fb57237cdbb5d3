package bimap

import (
	"iter"
)

// bucket is the set of values associated with one key.
type bucket[K, V comparable] struct {
	key     *Rc[K]
	members Backing[V, *Rc[V]]
}

func (b *bucket[K, V]) has(v V) bool {
	return b.members.Has(v)
}

// add puts v into this bucket, taking a reference from vp if it was not already here.
func (b *bucket[K, V]) add(v V, rc *Rc[V], vp *pool[V]) bool {
	if b.has(v) {
		return false
	}
	b.members.Put(v, vp.take(v, rc))
	return true
}

func (b *bucket[K, V]) remove(v V, vp *pool[V]) bool {
	if _, ok := b.members.Delete(v); !ok {
		return false
	}
	vp.release(v)
	return true
}

func (b *bucket[K, V]) values() iter.Seq[V] {
	return b.members.Keys()
}

func (b *bucket[K, V]) handles() iter.Seq[*Rc[V]] {
	return func(yield func(*Rc[V]) bool) {
		for _, rc := range b.members.All() {
			if !yield(rc) {
				return
			}
		}
	}
}

// index maps each key to a non-empty bucket.
type index[K, V comparable] struct {
	kcmp    CompareFunc[K]
	vcmp    CompareFunc[V]
	buckets Backing[K, *bucket[K, V]]
}

func newIndex[K, V comparable](kcmp CompareFunc[K], vcmp CompareFunc[V]) *index[K, V] {
	return &index[K, V]{
		kcmp:    kcmp,
		vcmp:    vcmp,
		buckets: newBacking[K, *bucket[K, V]](kcmp),
	}
}

func (ix *index[K, V]) get(k K) (*bucket[K, V], bool) {
	return ix.buckets.Get(k)
}

// getOrCreate returns the bucket for k, creating it (and taking a key reference) if needed.
func (ix *index[K, V]) getOrCreate(k K, rc *Rc[K], kp *pool[K]) *bucket[K, V] {
	b, ok := ix.buckets.Get(k)
	if !ok {
		b = &bucket[K, V]{
			key:     kp.take(k, rc),
			members: newBacking[V, *Rc[V]](ix.vcmp),
		}
		ix.buckets.Put(k, b)
	}
	return b
}

// drop removes the bucket for k, releasing its key reference.
// It does not touch the bucket's members.
func (ix *index[K, V]) drop(k K, kp *pool[K]) (*bucket[K, V], bool) {
	b, ok := ix.buckets.Delete(k)
	if ok {
		kp.release(k)
	}
	return b, ok
}

func (ix *index[K, V]) reset() {
	ix.buckets.Clear()
}
