package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// event is a single Server-Sent Event.
// The zero event is written as an empty comment and is used as a keepalive.
type event struct {
	Comment string
	Event   string
	ID      string
	Data    any // written as JSON if non-nil
}

func setEventHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

// writeEvent writes e to w and flushes it, if w supports that.
func writeEvent(w io.Writer, e event) error {
	if strings.ContainsRune(e.Event, '\n') || strings.ContainsRune(e.ID, '\n') {
		return fmt.Errorf("can't have newline in event %q", e.Event)
	}

	var sb strings.Builder
	for line := range strings.Lines(e.Comment) {
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSuffix(line, "\n"))
		sb.WriteByte('\n')
	}
	if e.Event != "" {
		fmt.Fprintf(&sb, "event: %s\n", e.Event)
	}
	if e.ID != "" {
		fmt.Fprintf(&sb, "id: %s\n", e.ID)
	}
	if e.Data != nil {
		b, err := json.Marshal(e.Data)
		if err != nil {
			return err
		}
		fmt.Fprintf(&sb, "data: %s\n", b)
	}
	if sb.Len() == 0 {
		sb.WriteString(":\n")
	}
	sb.WriteByte('\n')

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// jitter returns d +/- the given ratio, e.g., pass 0.05 for 5%.
func jitter(d time.Duration, by float64) time.Duration {
	delta := time.Duration(float64(d) * by)
	if delta <= 0 {
		return d
	}
	return d - delta + time.Duration(rand.Int64N(int64(delta*2)))
}
