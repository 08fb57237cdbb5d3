package h2

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const shutdownTimeout = time.Second * 5

// Handler wraps h so that it also accepts unencrypted HTTP/2 (h2c), as most hosting providers' proxies speak.
// A nil h serves [http.DefaultServeMux].
func Handler(h http.Handler) http.Handler {
	if h == nil {
		h = http.DefaultServeMux
	}
	return h2c.NewHandler(h, &http2.Server{})
}

// ListenAndServe serves HTTP traffic in a sensibly default way until ctx is done.
//
// By default, it serves on the env PORT or port 8080 and supports H2C.
// It can also be configured with self-signed SSL, useful for some providers.
// Returns nil if ctx ended and in-flight requests drained.
func ListenAndServe(ctx context.Context, opts *ListenAndServeOpts) error {
	if opts == nil {
		opts = &ListenAndServeOpts{}
	}

	s := &http.Server{
		Addr:    opts.addr(),
		Handler: Handler(opts.Handler),
	}

	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Shutdown(shutdownCtx)
	})
	defer stop()

	var err error
	if opts.FakeSSL {
		s.TLSConfig, err = buildSelfSignedTLSConfig()
		if err != nil {
			return err
		}
		err = s.ListenAndServeTLS("", "")
	} else {
		err = s.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) && ctx.Err() != nil {
		return nil
	}
	return err
}

type ListenAndServeOpts struct {
	// Addr is the address to listen on.
	// If not passed, looks for the PORT env var or defaults to ":8080".
	Addr string

	// ServeAll hosts the server on all addresses (vs localhost) if Addr is unspecified.
	ServeAll bool

	// Handler is the handler to serve.
	// If nil, uses [http.DefaultServeMux].
	Handler http.Handler

	// FakeSSL runs the handler with self-signed TLS.
	// As of July 2025, this is useful for Cloudflare, which allows HTTP/2 over "bad" SSL (rather than h2c).
	FakeSSL bool
}

func (opts *ListenAndServeOpts) addr() string {
	if opts.Addr != "" {
		return opts.Addr
	}

	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port <= 0 {
		port = 8080
	}

	host := "localhost"
	if opts.ServeAll {
		host = ""
	}
	return host + ":" + strconv.Itoa(port)
}
