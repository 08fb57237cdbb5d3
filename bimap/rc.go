package bimap

// Rc is a shared handle to a value stored in a Multi.
// A Multi keeps at most one Rc per distinct value on each side, so handles can be compared by pointer.
type Rc[T comparable] struct {
	value T
}

// NewRc boxes the given value.
func NewRc[T comparable](value T) *Rc[T] {
	return &Rc[T]{value: value}
}

// Value returns the boxed value.
func (r *Rc[T]) Value() T {
	return r.value
}

type poolSlot[T comparable] struct {
	rc   *Rc[T]
	refs int
}

// pool interns handles for one side of a Multi.
// refs counts the index slots holding the handle: its own key slot plus member slots on the other side.
type pool[T comparable] struct {
	slots map[T]*poolSlot[T]
}

func newPool[T comparable]() *pool[T] {
	return &pool[T]{slots: map[T]*poolSlot[T]{}}
}

// take returns the interned handle for value and adds a reference to it.
// If value isn't interned yet, rc is adopted (or a new handle is made if rc is nil).
func (p *pool[T]) take(value T, rc *Rc[T]) *Rc[T] {
	slot, ok := p.slots[value]
	if !ok {
		if rc == nil {
			rc = NewRc(value)
		}
		slot = &poolSlot[T]{rc: rc}
		p.slots[value] = slot
	}
	slot.refs++
	return slot.rc
}

// release drops a reference, forgetting the handle once nothing refers to it.
func (p *pool[T]) release(value T) {
	slot, ok := p.slots[value]
	if !ok {
		return
	}
	slot.refs--
	if slot.refs <= 0 {
		delete(p.slots, value)
	}
}

func (p *pool[T]) lookup(value T) (rc *Rc[T], ok bool) {
	slot, ok := p.slots[value]
	if ok {
		rc = slot.rc
	}
	return
}

func (p *pool[T]) refs(value T) int {
	if slot, ok := p.slots[value]; ok {
		return slot.refs
	}
	return 0
}

func (p *pool[T]) reset() {
	p.slots = map[T]*poolSlot[T]{}
}
