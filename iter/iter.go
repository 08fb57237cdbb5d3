package iter

import (
	"iter"
)

// Flatten2 walks outer, and for each of its pairs yields the outer key alongside every value produced by inner.
// Nothing is buffered: each inner sequence is only started once the previous one is exhausted.
func Flatten2[K, X, V any](outer iter.Seq2[K, X], inner func(X) iter.Seq[V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for k, x := range outer {
			for v := range inner(x) {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Cursor2 is a one-pass cursor over an iter.Seq2.
// It cannot be rewound; build a new one from the source to start again.
type Cursor2[K, V any] struct {
	next func() (K, V, bool)
	stop func()
	done bool
}

// NewCursor2 wraps seq in a Cursor2.
// The cursor holds resources until it is exhausted or Stop is called.
func NewCursor2[K, V any](seq iter.Seq2[K, V]) *Cursor2[K, V] {
	next, stop := iter.Pull2(seq)
	return &Cursor2[K, V]{next: next, stop: stop}
}

// Next returns the next pair, or false once the sequence is exhausted.
// After returning false, it will always return false.
func (c *Cursor2[K, V]) Next() (k K, v V, ok bool) {
	if c.done {
		return
	}
	k, v, ok = c.next()
	if !ok {
		c.Stop()
	}
	return
}

// Stop releases the cursor early.
// It is safe to call more than once.
func (c *Cursor2[K, V]) Stop() {
	if !c.done {
		c.done = true
		c.stop()
	}
}
