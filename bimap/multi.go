package bimap

import (
	"cmp"
	"iter"

	mapset "github.com/deckarep/golang-set/v2"
)

// Multi is a bidirectional multimap between left values L and right values R.
// The zero value is an empty hash-backed Multi ready to use.
type Multi[L, R comparable] struct {
	lv view[L, R]
	rv view[R, L]

	subscribe func(func(Op, L, R))
}

// New returns an empty hash-backed Multi.
func New[L, R comparable]() *Multi[L, R] {
	m := &Multi[L, R]{}
	m.init()
	return m
}

// NewOrdered returns an empty Multi whose indices are ordered by the given compare functions.
// Iteration, Lefts, Rights and the GetOne methods follow this order.
// Each compare function must report zero exactly when its arguments are ==.
func NewOrdered[L, R comparable](lcmp CompareFunc[L], rcmp CompareFunc[R]) *Multi[L, R] {
	m := &Multi[L, R]{}
	m.build(lcmp, rcmp)
	return m
}

// NewOrderedOf returns an empty Multi ordered by the natural order of both sides.
func NewOrderedOf[L, R cmp.Ordered]() *Multi[L, R] {
	return NewOrdered(cmp.Compare[L], cmp.Compare[R])
}

func (m *Multi[L, R]) init() {
	if m.lv.own == nil {
		m.build(nil, nil)
	}
}

func (m *Multi[L, R]) build(lcmp CompareFunc[L], rcmp CompareFunc[R]) {
	left := newIndex(lcmp, rcmp)
	right := newIndex(rcmp, lcmp)
	lp := newPool[L]()
	rp := newPool[R]()
	count := new(int)
	obs := &observers[L, R]{}

	m.lv = view[L, R]{
		own:   left,
		other: right,
		kp:    lp,
		vp:    rp,
		count: count,
		emit:  obs.emit,
	}
	m.rv = view[R, L]{
		own:   right,
		other: left,
		kp:    rp,
		vp:    lp,
		count: count,
		emit:  func(op Op, r R, l L) { obs.emit(op, l, r) },
	}
	m.subscribe = obs.add
}

// Invert returns a view of this Multi with the sides swapped.
// The two share all state: changes made through either are visible in both.
func (m *Multi[L, R]) Invert() *Multi[R, L] {
	m.init()

	subscribe := m.subscribe
	return &Multi[R, L]{
		lv: m.rv,
		rv: m.lv,
		subscribe: func(fn func(Op, R, L)) {
			subscribe(func(op Op, l L, r R) { fn(op, r, l) })
		},
	}
}

// Len returns the number of distinct pairs.
func (m *Multi[L, R]) Len() int {
	if m.lv.count == nil {
		return 0
	}
	return *m.lv.count
}

// LeftLen returns the number of distinct left values.
func (m *Multi[L, R]) LeftLen() int {
	m.init()
	return m.lv.own.buckets.Len()
}

// RightLen returns the number of distinct right values.
func (m *Multi[L, R]) RightLen() int {
	m.init()
	return m.rv.own.buckets.Len()
}

// Insert associates left with right.
// Returns true if the pair was not already present.
func (m *Multi[L, R]) Insert(left L, right R) (added bool) {
	m.init()
	return m.lv.link(left, nil, right, nil)
}

// InsertRc associates the values held by the given handles.
// The handles are adopted unless an equal value is already held, in which case the existing handle is kept.
func (m *Multi[L, R]) InsertRc(left *Rc[L], right *Rc[R]) (added bool) {
	m.init()
	return m.lv.link(left.Value(), left, right.Value(), right)
}

// Has returns whether left is associated with right.
func (m *Multi[L, R]) Has(left L, right R) bool {
	m.init()
	return m.lv.has(left, right)
}

// HasLeft returns whether left has any associations.
func (m *Multi[L, R]) HasLeft(left L) bool {
	m.init()
	return m.lv.own.buckets.Has(left)
}

// HasRight returns whether right has any associations.
func (m *Multi[L, R]) HasRight(right R) bool {
	m.init()
	return m.rv.own.buckets.Has(right)
}

// GetLeft returns a copy of the right values associated with left.
func (m *Multi[L, R]) GetLeft(left L) (mapset.Set[R], bool) {
	m.init()
	return m.lv.get(left)
}

// GetRight returns a copy of the left values associated with right.
func (m *Multi[L, R]) GetRight(right R) (mapset.Set[L], bool) {
	m.init()
	return m.rv.get(right)
}

// GetOneLeft returns any single right value associated with left.
// Which one is unspecified for hash-backed maps.
func (m *Multi[L, R]) GetOneLeft(left L) (R, bool) {
	m.init()
	return m.lv.getOne(left)
}

// GetOneRight returns any single left value associated with right.
func (m *Multi[L, R]) GetOneRight(right R) (L, bool) {
	m.init()
	return m.rv.getOne(right)
}

func (m *Multi[L, R]) GetLeftSlice(left L) ([]R, bool) {
	m.init()
	return m.lv.getSlice(left)
}

func (m *Multi[L, R]) GetRightSlice(right R) ([]L, bool) {
	m.init()
	return m.rv.getSlice(right)
}

// LeftHandle returns the handle held for a left value.
func (m *Multi[L, R]) LeftHandle(left L) (*Rc[L], bool) {
	m.init()
	return m.lv.kp.lookup(left)
}

// RightHandle returns the handle held for a right value.
func (m *Multi[L, R]) RightHandle(right R) (*Rc[R], bool) {
	m.init()
	return m.rv.kp.lookup(right)
}

// LeftHandles yields the handles of the right values associated with left, without copying.
// The Multi must not be modified while this is being consumed.
func (m *Multi[L, R]) LeftHandles(left L) iter.Seq[*Rc[R]] {
	m.init()
	return m.lv.handles(left)
}

// RightHandles yields the handles of the left values associated with right, without copying.
func (m *Multi[L, R]) RightHandles(right R) iter.Seq[*Rc[L]] {
	m.init()
	return m.rv.handles(right)
}

// Lefts yields every distinct left value.
func (m *Multi[L, R]) Lefts() iter.Seq[L] {
	m.init()
	return m.lv.keys()
}

// Rights yields every distinct right value.
func (m *Multi[L, R]) Rights() iter.Seq[R] {
	m.init()
	return m.rv.keys()
}

// Remove removes the association between left and right.
// Returns whether the pair was removed.
func (m *Multi[L, R]) Remove(left L, right R) bool {
	m.init()
	return m.lv.remove(left, right)
}

// RemoveLeft removes every pair with this left value.
// Returns the right values it was associated with.
func (m *Multi[L, R]) RemoveLeft(left L) (mapset.Set[R], bool) {
	m.init()
	return m.lv.removeKey(left)
}

// RemoveRight removes every pair with this right value.
// Returns the left values it was associated with.
func (m *Multi[L, R]) RemoveRight(right R) (mapset.Set[L], bool) {
	m.init()
	return m.rv.removeKey(right)
}

// SetLeft replaces the right values associated with key by exactly the given set.
// Pairs which are already present are not touched. An empty or nil set removes key entirely.
//
// key must not be nil. It is installed as the shared handle for every new pair, unless an equal left value is already held.
func (m *Multi[L, R]) SetLeft(key *Rc[L], values mapset.Set[R]) {
	m.init()
	m.lv.set(key, values)
}

// SetRight replaces the left values associated with key by exactly the given set.
// It is the mirror of SetLeft, and key must not be nil.
func (m *Multi[L, R]) SetRight(key *Rc[R], values mapset.Set[L]) {
	m.init()
	m.rv.set(key, values)
}

// Clear removes every pair.
// Observers are told about each removed pair.
func (m *Multi[L, R]) Clear() {
	m.init()

	obs := m.lv.emit
	if *m.lv.count > 0 {
		for l, r := range m.lv.all() {
			obs(OpRemove, l.Value(), r.Value())
		}
	}

	m.lv.own.reset()
	m.rv.own.reset()
	m.lv.kp.reset()
	m.lv.vp.reset()
	*m.lv.count = 0
}
