package bimap

import (
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
	xiter "github.com/samthor/bimultimap/iter"
)

// view is one orientation of a Multi: own is keyed by K, other is its mirror keyed by V.
// A Multi holds two views over the same state, so every algorithm here is written once and serves both sides.
type view[K, V comparable] struct {
	own   *index[K, V]
	other *index[V, K]
	kp    *pool[K]
	vp    *pool[V]
	count *int
	emit  func(op Op, k K, v V)
}

func (w *view[K, V]) has(k K, v V) bool {
	kb, ok := w.own.get(k)
	return ok && kb.has(v)
}

func (w *view[K, V]) get(k K) (out mapset.Set[V], ok bool) {
	kb, ok := w.own.get(k)
	if !ok {
		return nil, false
	}
	out = mapset.NewThreadUnsafeSetWithSize[V](kb.members.Len())
	for v := range kb.values() {
		out.Add(v)
	}
	return out, true
}

func (w *view[K, V]) getOne(k K) (v V, ok bool) {
	kb, ok := w.own.get(k)
	if !ok {
		return
	}
	v, _, ok = kb.members.Min()
	return v, ok
}

func (w *view[K, V]) getSlice(k K) (out []V, ok bool) {
	kb, ok := w.own.get(k)
	if !ok {
		return nil, false
	}
	out = make([]V, 0, kb.members.Len())
	for v := range kb.values() {
		out = append(out, v)
	}
	return out, true
}

func (w *view[K, V]) handles(k K) iter.Seq[*Rc[V]] {
	return func(yield func(*Rc[V]) bool) {
		kb, ok := w.own.get(k)
		if !ok {
			return
		}
		for rc := range kb.handles() {
			if !yield(rc) {
				return
			}
		}
	}
}

func (w *view[K, V]) keys() iter.Seq[K] {
	return w.own.buckets.Keys()
}

// link adds the pair to both indices.
// Either handle may be nil, in which case the value is interned by equality.
func (w *view[K, V]) link(k K, krc *Rc[K], v V, vrc *Rc[V]) (added bool) {
	kb := w.own.getOrCreate(k, krc, w.kp)
	vb := w.other.getOrCreate(v, vrc, w.vp)

	added = kb.add(v, vrc, w.vp)
	vb.add(k, krc, w.kp)

	if added {
		*w.count++
		w.emit(OpAdd, k, v)
	}
	return added
}

// unlink removes a pair known to be present on both sides, dropping any bucket left empty.
func (w *view[K, V]) unlink(k K, kb *bucket[K, V], v V, vb *bucket[V, K]) {
	kb.remove(v, w.vp)
	if kb.members.Len() == 0 {
		w.own.drop(k, w.kp)
	}

	vb.remove(k, w.kp)
	if vb.members.Len() == 0 {
		w.other.drop(v, w.vp)
	}

	*w.count--
	w.emit(OpRemove, k, v)
}

// remove deletes the pair only if both indices agree that it exists.
func (w *view[K, V]) remove(k K, v V) bool {
	kb, ok := w.own.get(k)
	if !ok || !kb.has(v) {
		return false
	}
	vb, ok := w.other.get(v)
	if !ok || !vb.has(k) {
		// one-sided entry: refuse rather than guess which side is right
		return false
	}

	w.unlink(k, kb, v, vb)
	return true
}

// removeKey deletes every pair keyed by k, returning the values it was associated with.
func (w *view[K, V]) removeKey(k K) (out mapset.Set[V], ok bool) {
	kb, ok := w.own.drop(k, w.kp)
	if !ok {
		return nil, false
	}

	out = mapset.NewThreadUnsafeSetWithSize[V](kb.members.Len())
	for v := range kb.values() {
		out.Add(v)

		if vb, ok := w.other.get(v); ok && vb.remove(k, w.kp) && vb.members.Len() == 0 {
			w.other.drop(v, w.vp)
		}
		w.vp.release(v)

		*w.count--
		w.emit(OpRemove, k, v)
	}
	return out, true
}

// set replaces the values associated with key by exactly values.
// Pairs present before and after are left alone; their handles are not reallocated.
func (w *view[K, V]) set(key *Rc[K], values mapset.Set[V]) {
	k := key.Value()
	kb, exists := w.own.get(k)

	var toAdd, toRemove []V
	if values != nil {
		for _, v := range values.ToSlice() {
			if !exists || !kb.has(v) {
				toAdd = append(toAdd, v)
			}
		}
	}
	if exists {
		for v := range kb.values() {
			if values == nil || !values.Contains(v) {
				toRemove = append(toRemove, v)
			}
		}
	}

	// add first, so the key's bucket (and its handle) survives a full replacement
	for _, v := range toAdd {
		w.link(k, key, v, nil)
	}

	for _, v := range toRemove {
		kb, ok := w.own.get(k)
		if !ok {
			break
		}
		vb, ok := w.other.get(v)
		if !ok {
			// one-sided; drop our half only, the mirror never had it
			kb.remove(v, w.vp)
			if kb.members.Len() == 0 {
				w.own.drop(k, w.kp)
			}
			*w.count--
			w.emit(OpRemove, k, v)
			continue
		}
		w.unlink(k, kb, v, vb)
	}
}

// all yields every pair, walking own and flattening each bucket.
func (w *view[K, V]) all() iter.Seq2[*Rc[K], *Rc[V]] {
	var outer iter.Seq2[*Rc[K], *bucket[K, V]] = func(yield func(*Rc[K], *bucket[K, V]) bool) {
		for _, kb := range w.own.buckets.All() {
			if !yield(kb.key, kb) {
				return
			}
		}
	}
	return xiter.Flatten2(outer, (*bucket[K, V]).handles)
}
