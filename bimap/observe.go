package bimap

// Op describes a change to a single pair.
type Op int

const (
	OpAdd Op = iota + 1
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpRemove:
		return "remove"
	}
	return "unknown"
}

// Change is reported to observers for every pair added or removed.
type Change[L, R comparable] struct {
	Op    Op
	Left  L
	Right R
}

type observers[L, R comparable] struct {
	fns []func(Op, L, R)
}

func (o *observers[L, R]) add(fn func(Op, L, R)) {
	o.fns = append(o.fns, fn)
}

func (o *observers[L, R]) emit(op Op, l L, r R) {
	for _, fn := range o.fns {
		fn(op, l, r)
	}
}

// Observe registers fn to be called synchronously after every pair is added or removed, by any method.
// fn must not modify the Multi.
func (m *Multi[L, R]) Observe(fn func(Change[L, R])) {
	m.init()
	m.subscribe(func(op Op, l L, r R) {
		fn(Change[L, R]{Op: op, Left: l, Right: r})
	})
}
