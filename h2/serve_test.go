package h2

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSelfSignedCerts(t *testing.T) {
	config, err := buildSelfSignedTLSConfig()
	require.NoError(t, err)
	require.Len(t, config.Certificates, 1)
}

func TestAddr(t *testing.T) {
	t.Setenv("PORT", "")
	require.Equal(t, "localhost:8080", (&ListenAndServeOpts{}).addr())
	require.Equal(t, ":8080", (&ListenAndServeOpts{ServeAll: true}).addr())
	require.Equal(t, "x:1", (&ListenAndServeOpts{Addr: "x:1"}).addr())

	t.Setenv("PORT", "9000")
	require.Equal(t, "localhost:9000", (&ListenAndServeOpts{}).addr())
}

func TestHandler(t *testing.T) {
	s := httptest.NewServer(Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, r.Proto)
	})))
	defer s.Close()

	resp, err := http.Get(s.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	require.Equal(t, "HTTP/1.1", string(b))
}

func TestListenAndServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- ListenAndServe(ctx, &ListenAndServeOpts{
			Addr:    addr,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, time.Second, time.Millisecond*10)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second * 2):
		t.Fatal("server did not shut down")
	}
}
