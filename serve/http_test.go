package serve

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samthor/bimultimap/bimap"
	"github.com/stretchr/testify/require"
)

func TestWriteEvent(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, writeEvent(&b, event{Comment: "Hey\nNerds"}))
	require.Equal(t, ": Hey\n: Nerds\n\n", b.String())

	b.Reset()
	require.NoError(t, writeEvent(&b, event{Event: "add", ID: "1", Data: Change{"add", "a", "b"}}))
	require.Equal(t, "event: add\nid: 1\ndata: {\"op\":\"add\",\"l\":\"a\",\"r\":\"b\"}\n\n", b.String())

	b.Reset()
	require.NoError(t, writeEvent(&b, event{}))
	require.Equal(t, ":\n\n", b.String())

	require.Error(t, writeEvent(&b, event{Event: "a\nb"}))
}

func TestJitter(t *testing.T) {
	for range 100 {
		d := jitter(time.Second, 0.1)
		require.GreaterOrEqual(t, d, time.Second*9/10)
		require.Less(t, d, time.Second*11/10)
	}
	require.Equal(t, time.Second, jitter(time.Second, 0))
}

func TestEvents(t *testing.T) {
	h := &Handler{}
	s := httptest.NewServer(h.Mux())
	t.Cleanup(s.Close)

	req, err := http.NewRequestWithContext(t.Context(), "GET", s.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	readEvent := func() []string {
		var lines []string
		for {
			line, err := r.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			if line == "" {
				return lines
			}
			lines = append(lines, line)
		}
	}

	require.Equal(t, []string{": hello"}, readEvent())

	h.Store.Map().Insert("a", "b")
	require.Equal(t, []string{"event: add", "id: 1", `data: {"op":"add","l":"a","r":"b"}`}, readEvent())

	h.Store.Map().Remove("a", "b")
	require.Equal(t, []string{"event: remove", "id: 2", `data: {"op":"remove","l":"a","r":"b"}`}, readEvent())
}

func TestDumpAndLookup(t *testing.T) {
	h := &Handler{}
	s := httptest.NewServer(h.Mux())
	t.Cleanup(s.Close)

	m := h.Store.Map()
	m.Insert("a", "x")
	m.Insert("a", "y")
	m.Insert("b", "x")

	get := func(path string) (int, []byte) {
		resp, err := http.Get(s.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, b
	}

	code, b := get("/left/a")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `["x","y"]`, string(b))

	code, b = get("/right/x")
	require.Equal(t, http.StatusOK, code)
	require.JSONEq(t, `["a","b"]`, string(b))

	code, _ = get("/left/nope")
	require.Equal(t, http.StatusNotFound, code)

	code, b = get("/dump")
	require.Equal(t, http.StatusOK, code)
	var back bimap.Multi[string, string]
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, 3, back.Len())
	require.True(t, back.Has("a", "y"))
}
