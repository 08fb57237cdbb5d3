package serve

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/go-logr/logr"
	"github.com/samthor/bimultimap/bimap"
	"github.com/samthor/bimultimap/queue"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type session struct {
	ctx context.Context // context of socket
	eg  *errgroup.Group
	h   *Handler
	log logr.Logger

	conn    *websocket.Conn
	limiter *rate.Limiter
	out     queue.Queue[any]

	watching bool // only touched by runIncoming
}

// runOutgoing writes everything pushed to out, in order, until the listener's context is done.
func (s *session) runOutgoing(l queue.Listener[any]) error {
	for {
		batch := l.Batch()
		if len(batch) == 0 {
			return nil
		}
		for _, msg := range batch {
			if err := wsjson.Write(l.Context(), s.conn, msg); err != nil {
				return err
			}
		}
	}
}

func (s *session) runIncoming() error {
	for {
		typ, b, err := s.conn.Read(s.ctx)
		if err != nil {
			return err
		}
		if !s.limiter.Allow() {
			// drop; sending too many requests
			return websocket.CloseError{Code: SocketCodeExcessTraffic}
		}

		var req Request
		if typ != websocket.MessageText {
			return websocket.CloseError{Code: SocketCodeBadRequest, Reason: "binary message"}
		} else if err := json.Unmarshal(b, &req); err != nil {
			return websocket.CloseError{Code: SocketCodeBadRequest, Reason: "malformed request"}
		}

		resp := s.handle(req)
		s.h.metrics.observe(&resp, req.Op)
		if resp.Err != "" {
			s.log.V(2).Info("bad request", "id", req.ID, "err", resp.Err)
		}
		s.out.Push(resp)
	}
}

func (s *session) handle(req Request) (resp Response) {
	resp.ID = req.ID
	m := s.h.Store.Map()

	switch req.Op {
	case OpInsert:
		resp.Ok = m.Insert(req.Left, req.Right)
	case OpRemove:
		resp.Ok = m.Remove(req.Left, req.Right)
	case OpRemoveLeft:
		var values mapset.Set[string]
		values, resp.Ok = m.RemoveLeft(req.Left)
		resp.Values = sortedValues(values)
	case OpRemoveRight:
		var values mapset.Set[string]
		values, resp.Ok = m.RemoveRight(req.Right)
		resp.Values = sortedValues(values)
	case OpSetLeft:
		m.SetLeft(bimap.NewRc(req.Left), mapset.NewThreadUnsafeSet(req.Rights...))
		resp.Ok = true
	case OpSetRight:
		m.SetRight(bimap.NewRc(req.Right), mapset.NewThreadUnsafeSet(req.Lefts...))
		resp.Ok = true
	case OpGetLeft:
		var values mapset.Set[string]
		values, resp.Ok = m.GetLeft(req.Left)
		resp.Values = sortedValues(values)
	case OpGetRight:
		var values mapset.Set[string]
		values, resp.Ok = m.GetRight(req.Right)
		resp.Values = sortedValues(values)
	case OpHas:
		resp.Ok = m.Has(req.Left, req.Right)
	case OpLen:
		resp.Ok = true
	case OpDump:
		resp.Pairs = m.Pairs()
		slices.SortFunc(resp.Pairs, func(a, b bimap.Pair[string, string]) int {
			return cmp.Or(cmp.Compare(a.Left, b.Left), cmp.Compare(a.Right, b.Right))
		})
		resp.Ok = true
	case OpWatch:
		s.watch()
		resp.Ok = true
	default:
		resp.Err = fmt.Sprintf("unknown op: %q", req.Op)
	}

	resp.Count = m.Len()
	return resp
}

// watch forwards every later change to this session.
// Calling it again does nothing.
func (s *session) watch() {
	if s.watching {
		return
	}
	s.watching = true

	l := s.h.Store.Watch(s.ctx)
	s.eg.Go(func() error {
		for c := range l.Iter() {
			s.out.Push(ChangeMessage{Change: c})
		}
		return nil
	})
}

func sortedValues(s mapset.Set[string]) []string {
	if s == nil {
		return nil
	}
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
