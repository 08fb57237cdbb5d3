package serve

import (
	"math/rand/v2"
	"sync"

	"github.com/taylorza/go-lfsr"
)

// sessionIDs hands out session IDs in the range (0,2^31), without repeats for the life of a Handler.
type sessionIDs struct {
	lock sync.Mutex
	next func() int
}

func newSessionIDs() *sessionIDs {
	gen := lfsr.NewLfsr32(rand.Uint32() | 1)

	return &sessionIDs{next: func() int {
		for {
			id, restarted := gen.Next()
			if restarted {
				panic("session IDs exhausted")
			}
			if id == 0 || id&0x80000000 != 0 {
				continue // keep IDs positive in a signed 32-bit int
			}
			return int(id)
		}
	}}
}

func (s *sessionIDs) take() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.next()
}
