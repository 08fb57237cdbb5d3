package aatree

import (
	"iter"
)

type treeNode[K, V any] struct {
	level int
	left  *treeNode[K, V]
	right *treeNode[K, V]
	key   K
	value V
}

// CompareFunc is a function type that compares two keys.
// It should return:
//   - a negative integer if a < b
//   - zero if a == b
//   - a positive integer if a > b
type CompareFunc[K any] func(a, b K) int

// Map is an ordered map backed by an AA tree.
// Keys are unique under the compare function.
type Map[K, V any] struct {
	root    *treeNode[K, V]
	count   int
	compare CompareFunc[K]

	// scratch state for the recursive insert/remove
	change  bool
	removed V
}

// New creates a new, empty Map with the given comparison function.
func New[K, V any](compare CompareFunc[K]) *Map[K, V] {
	return &Map[K, V]{compare: compare}
}

// Clear removes all entries.
func (t *Map[K, V]) Clear() {
	t.root = nil
	t.count = 0
}

// Len returns the number of entries in this Map.
func (t *Map[K, V]) Len() int {
	return t.count
}

// Get returns the value stored under key.
func (t *Map[K, V]) Get(key K) (value V, ok bool) {
	node := t.root

	for node != nil {
		c := t.compare(key, node.key)
		if c < 0 {
			node = node.left
		} else if c > 0 {
			node = node.right
		} else {
			return node.value, true
		}
	}
	return
}

// Has checks if this Map contains the given key.
func (t *Map[K, V]) Has(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Min returns the smallest entry.
func (t *Map[K, V]) Min() (key K, value V, ok bool) {
	if t.root == nil {
		return
	}
	node := findMinNode(t.root)
	return node.key, node.value, true
}

// Put stores value under key, replacing any previous value.
// Returns true if a new entry was created.
func (t *Map[K, V]) Put(key K, value V) bool {
	t.change = false
	t.root = t.insert(t.root, key, value)
	return t.change
}

// Delete removes key, returning the value it held.
func (t *Map[K, V]) Delete(key K) (value V, ok bool) {
	var zero V
	t.change = false
	t.removed = zero
	t.root = t.remove(t.root, key)

	value, ok = t.removed, t.change
	t.removed = zero
	return
}

// All yields every entry in ascending key order.
// The Map must not be modified while this is being consumed.
func (t *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		walk(t.root, yield)
	}
}

// Keys yields every key in ascending order.
func (t *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		walk(t.root, func(k K, _ V) bool { return yield(k) })
	}
}

func walk[K, V any](node *treeNode[K, V], yield func(K, V) bool) bool {
	for node != nil {
		if !walk(node.left, yield) {
			return false
		}
		if !yield(node.key, node.value) {
			return false
		}
		node = node.right
	}
	return true
}

func (t *Map[K, V]) skew(node *treeNode[K, V]) *treeNode[K, V] {
	if node.left == nil || node.left.level != node.level {
		return node
	}
	leftNode := node.left
	node.left = leftNode.right
	leftNode.right = node
	return leftNode
}

func (t *Map[K, V]) split(node *treeNode[K, V]) *treeNode[K, V] {
	if node.right == nil || node.right.right == nil {
		return node
	}
	if node.right.right.level != node.level {
		return node
	}
	rightNode := node.right
	node.right = rightNode.left
	rightNode.left = node
	rightNode.level++
	return rightNode
}

func (t *Map[K, V]) insert(node *treeNode[K, V], key K, value V) *treeNode[K, V] {
	if node == nil {
		t.count++
		t.change = true
		return &treeNode[K, V]{level: 1, key: key, value: value}
	}

	c := t.compare(key, node.key)
	switch {
	case c < 0:
		node.left = t.insert(node.left, key, value)
	case c > 0:
		node.right = t.insert(node.right, key, value)
	default:
		node.value = value
		return node
	}

	return t.split(t.skew(node))
}

func (t *Map[K, V]) remove(node *treeNode[K, V], key K) *treeNode[K, V] {
	if node == nil {
		return nil
	}

	c := t.compare(key, node.key)
	switch {
	case c < 0:
		node.left = t.remove(node.left, key)
	case c > 0:
		node.right = t.remove(node.right, key)
	default:
		if !t.change {
			// only the first match is the caller's; later ones are successor moves
			t.count--
			t.change = true
			t.removed = node.value
		}

		if node.left == nil && node.right == nil {
			return nil
		} else if node.left == nil {
			return node.right
		} else if node.right == nil {
			return node.left
		}

		successor := findMinNode(node.right)
		node.key, node.value = successor.key, successor.value
		node.right = t.remove(node.right, successor.key)
	}

	return t.rebalance(node)
}

func (t *Map[K, V]) rebalance(node *treeNode[K, V]) *treeNode[K, V] {
	var leftLevel, rightLevel int
	if node.left != nil {
		leftLevel = node.left.level
	}
	if node.right != nil {
		rightLevel = node.right.level
	}

	newLevel := min(leftLevel, rightLevel) + 1
	if newLevel < node.level {
		node.level = newLevel
		if node.right != nil && newLevel < node.right.level {
			node.right.level = newLevel
		}
	}

	node = t.skew(node)
	node = t.split(node)

	if node.right != nil {
		node.right = t.skew(node.right)
		node.right = t.split(node.right)
		if node.right.right != nil {
			node.right.right = t.split(node.right.right)
		}
	}

	return node
}

// findMinNode finds the node with the minimum key in the subtree rooted at `node`.
// Assumes `node` is not nil.
func findMinNode[K, V any](node *treeNode[K, V]) *treeNode[K, V] {
	for node.left != nil {
		node = node.left
	}
	return node
}
