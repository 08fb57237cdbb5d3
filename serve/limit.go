package serve

import (
	"errors"
	"fmt"

	"golang.org/x/time/rate"
)

var (
	ErrBadLimit = errors.New("serve: bad limit")
)

// LimitConfig is the token bucket for requests on a single session.
// A session exceeding it is closed with SocketCodeExcessTraffic; the client is told the limit in the hello reply.
// A nil *LimitConfig allows everything.
type LimitConfig struct {
	Burst int        `json:"b"`
	Rate  rate.Limit `json:"r"`
}

// Validate returns ErrBadLimit if this limit can never be satisfied or is negative.
// A zero Rate with a positive Burst is allowed, and permits only Burst requests per session.
func (lc *LimitConfig) Validate() error {
	switch {
	case lc == nil:
		return nil
	case lc.Burst < 0 || lc.Rate < 0:
		return fmt.Errorf("%w: negative burst=%d rate=%v", ErrBadLimit, lc.Burst, lc.Rate)
	case lc.Burst == 0:
		return fmt.Errorf("%w: zero burst permits no requests", ErrBadLimit)
	}
	return nil
}

func (lc *LimitConfig) newLimiter() *rate.Limiter {
	if lc == nil {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(lc.Rate, lc.Burst)
}
