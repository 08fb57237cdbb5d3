package queue

import (
	"sync"
)

// New builds a new concurrent broadcast queue.
func New[X any]() Queue[X] {
	q := &queueImpl[X]{subs: map[int]int{}}
	q.cond = sync.NewCond(&q.lock)
	return q
}
