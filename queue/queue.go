package queue

import (
	"context"
	"iter"
	"sync"
)

type queueImpl[X any] struct {
	lock sync.Mutex
	cond *sync.Cond

	// head is the position after the last event ever pushed; events holds those not yet seen by every listener
	head   int
	events []X

	// subs maps each listener to the position of its next event
	subs   map[int]int
	nextID int
}

func (q *queueImpl[X]) Push(all ...X) (joined bool) {
	if len(all) == 0 {
		return false
	}

	q.lock.Lock()
	defer q.lock.Unlock()

	q.head += len(all)
	if len(q.subs) == 0 {
		q.events = nil
		return false
	}

	q.events = append(q.events, all...)
	q.cond.Broadcast()
	return true
}

func (q *queueImpl[X]) Join(ctx context.Context) Listener[X] {
	q.lock.Lock()
	defer q.lock.Unlock()

	id := q.nextID
	q.nextID++
	q.subs[id] = q.head

	context.AfterFunc(ctx, func() {
		q.lock.Lock()
		defer q.lock.Unlock()

		delete(q.subs, id)
		q.trim()
		q.cond.Broadcast() // wake the departing listener
	})

	return &listener[X]{ctx: ctx, q: q, id: id}
}

// trim drops events every listener has moved past.
// Must be called under lock.
func (q *queueImpl[X]) trim() {
	low := q.head
	for _, pos := range q.subs {
		low = min(low, pos)
	}

	start := q.head - len(q.events)
	if drop := low - start; drop > 0 {
		q.events = q.events[drop:]
	}
	if len(q.events) == 0 {
		q.events = nil
	}
}

// wait blocks until listener id has events, then passes them to consume, which returns how many it took.
// Returns false if the listener has gone.
func (q *queueImpl[X]) wait(id int, consume func(avail []X) int) bool {
	q.lock.Lock()
	defer q.lock.Unlock()

	for {
		pos, ok := q.subs[id]
		if !ok {
			return false
		}
		if pos == q.head {
			q.cond.Wait()
			continue
		}

		start := q.head - len(q.events)
		avail := q.events[pos-start:]
		took := min(max(consume(avail), 0), len(avail))

		q.subs[id] = pos + took
		q.trim()
		return true
	}
}

type listener[X any] struct {
	ctx context.Context
	q   *queueImpl[X]
	id  int
}

func (l *listener[X]) Next() (out X, ok bool) {
	l.q.wait(l.id, func(avail []X) int {
		out, ok = avail[0], true
		return 1
	})
	return
}

func (l *listener[X]) Batch() (out []X) {
	l.q.wait(l.id, func(avail []X) int {
		out = append([]X(nil), avail...)
		return len(avail)
	})
	return
}

func (l *listener[X]) Iter() iter.Seq[X] {
	return func(yield func(X) bool) {
		for {
			next, ok := l.Next()
			if !ok || !yield(next) {
				return
			}
		}
	}
}

func (l *listener[X]) Context() context.Context {
	return l.ctx
}
