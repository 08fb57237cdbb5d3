package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samthor/bimultimap/queue"
	"golang.org/x/sync/errgroup"
)

// Handler serves a Store over WebSocket.
type Handler struct {
	Store *Store

	// Log receives session lifecycle and error messages.
	// If unset, nothing is logged.
	Log logr.Logger

	// Registerer is where metrics are registered, if non-nil.
	Registerer prometheus.Registerer

	// SkipOriginVerify allows any hostname to connect here, not just our own.
	SkipOriginVerify bool

	// Limit optionally limits the number of requests allowed by a single session.
	// A session will be killed if it exceeds this rate; the client is told the limit in the hello reply.
	Limit *LimitConfig

	once     sync.Once
	sessions *sessionIDs
	metrics  *metrics
}

func (h *Handler) init() {
	h.once.Do(func() {
		if h.Store == nil {
			h.Store = NewStore(nil)
		}
		if h.Log.GetSink() == nil {
			h.Log = logr.Discard()
		}
		h.sessions = newSessionIDs()
		h.metrics = newMetrics(h.Registerer, h.Store)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init()

	options := &websocket.AcceptOptions{InsecureSkipVerify: h.SkipOriginVerify}
	sock, err := websocket.Accept(w, r, options)
	if err != nil {
		h.Log.Error(err, "could not set up websocket", "path", r.URL.Path)
		return // Accept has already written a response
	}

	ctx, cancel := context.WithCancelCause(r.Context())
	err = h.runSocket(ctx, sock)
	cancel(err)

	var closeError websocket.CloseError
	if errors.As(err, &closeError) {
		h.Log.V(1).Info("shutdown socket due to known reason", "code", int(closeError.Code), "reason", closeError.Reason)
		sock.Close(closeError.Code, closeError.Reason)
	} else if err != nil && !errors.Is(err, context.Canceled) {
		h.Log.Error(err, "shutdown socket due to error")
		sock.Close(websocket.StatusInternalError, "")
	} else {
		sock.Close(websocket.StatusNormalClosure, "")
	}
}

func (h *Handler) runSocket(ctx context.Context, sock *websocket.Conn) error {
	helloCtx, helloCancel := context.WithTimeout(ctx, helloTimeout)
	defer helloCancel()

	var hello helloMessage
	if err := wsjson.Read(helloCtx, sock, &hello); err != nil {
		return err
	} else if hello.Protocol != "1" {
		return websocket.CloseError{
			Code:   SocketCodeUnknownProtocol,
			Reason: fmt.Sprintf("unknown protocol: %q", hello.Protocol),
		}
	}

	id := h.sessions.take()
	err := wsjson.Write(helloCtx, sock, helloResponseMessage{Ok: true, Session: id, Limit: h.Limit})
	if err != nil {
		return err
	}

	log := h.Log.WithValues("session", id)
	log.V(1).Info("session started")
	h.metrics.sessions.Inc()
	defer h.metrics.sessions.Dec()

	eg, ctx := errgroup.WithContext(ctx)
	s := &session{
		ctx:     ctx,
		eg:      eg,
		h:       h,
		log:     log,
		conn:    sock,
		limiter: h.Limit.newLimiter(),
		out:     queue.New[any](),
	}
	outgoing := s.out.Join(ctx)

	eg.Go(func() error { return s.runOutgoing(outgoing) })
	eg.Go(func() error { return s.runIncoming() })

	err = eg.Wait()
	log.V(1).Info("session ended", "err", err)
	return err
}
