package serve

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/samthor/bimultimap/queue"
)

const keepaliveInterval = time.Second * 15

// httpFunc allows generating simple result types.
// Return nil to skip the built-in behavior.
type httpFunc func(http.ResponseWriter, *http.Request) any

func (h *Handler) wrapHttp(fn httpFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		out := fn(w, r)
		switch x := out.(type) {
		case nil:
			return
		case error:
			err = x
		case io.Reader:
			_, err = io.Copy(w, x)
		case int:
			w.WriteHeader(x)
		default:
			w.Header().Set("Content-Type", "application/json")
			err = json.NewEncoder(w).Encode(x)
		}

		if err == nil {
			return
		}
		h.Log.Error(err, "could not handle request", "path", r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Mux returns routes for this Handler:
//
//	/ws             the WebSocket protocol
//	/events         every change, as Server-Sent Events
//	/dump           every pair, as a JSON object with repeated keys
//	/left/{value}   right values for a left value, as a sorted JSON array
//	/right/{value}  left values for a right value
func (h *Handler) Mux() *http.ServeMux {
	h.init()

	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	mux.HandleFunc("GET /events", h.serveEvents)

	mux.HandleFunc("GET /dump", h.wrapHttp(func(w http.ResponseWriter, r *http.Request) any {
		return h.Store.Map()
	}))
	mux.HandleFunc("GET /left/{value}", h.wrapHttp(func(w http.ResponseWriter, r *http.Request) any {
		values, ok := h.Store.Map().GetLeft(r.PathValue("value"))
		if !ok {
			return http.StatusNotFound
		}
		return sortedValues(values)
	}))
	mux.HandleFunc("GET /right/{value}", h.wrapHttp(func(w http.ResponseWriter, r *http.Request) any {
		values, ok := h.Store.Map().GetRight(r.PathValue("value"))
		if !ok {
			return http.StatusNotFound
		}
		return sortedValues(values)
	}))

	return mux
}

func (h *Handler) serveEvents(w http.ResponseWriter, r *http.Request) {
	h.init()
	ctx := r.Context()

	// changes and keepalives both go via out, so only this goroutine writes
	out := queue.New[event]()
	l := out.Join(ctx)

	changes := h.Store.Watch(ctx)
	go func() {
		var id int
		for c := range changes.Iter() {
			id++
			out.Push(event{Event: c.Op, ID: strconv.Itoa(id), Data: c})
		}
	}()

	setEventHeaders(w.Header())
	w.WriteHeader(http.StatusOK)
	if err := writeEvent(w, event{Comment: "hello"}); err != nil {
		return
	}

	for {
		t := time.AfterFunc(jitter(keepaliveInterval, 0.1), func() { out.Push(event{}) })
		next, ok := l.Next()
		t.Stop()
		if !ok {
			return
		}

		if err := writeEvent(w, next); err != nil {
			h.Log.V(1).Info("event stream ended", "err", err)
			return
		}
	}
}
