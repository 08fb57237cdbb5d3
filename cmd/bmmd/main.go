// Command bmmd serves a string bimultimap over WebSocket.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samthor/bimultimap/h2"
	"github.com/samthor/bimultimap/serve"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

func main() {
	opts := NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.Parse()
	defer klog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		klog.ErrorS(err, "exiting")
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *Options) error {
	logger := klog.NewKlogr().WithValues("component", "bmmd")

	fc, err := loadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}

	limit := opts.limit(fc)
	if err := limit.Validate(); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := serve.NewStore(opts.newMulti(fc))
	handler := &serve.Handler{
		Store:            store,
		Log:              logger,
		Registerer:       registry,
		SkipOriginVerify: opts.SkipOriginVerify,
		Limit:            limit,
	}
	logger.Info("starting", "pairs", store.Map().Len(), "ordered", opts.Ordered)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return h2.ListenAndServe(ctx, &h2.ListenAndServeOpts{
			Addr:     opts.Addr,
			ServeAll: opts.ServeAll,
			FakeSSL:  opts.FakeSSL,
			Handler:  handler.Mux(),
		})
	})

	if opts.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
		eg.Go(func() error {
			logger.Info("serving metrics", "addr", opts.MetricsAddr)
			return h2.ListenAndServe(ctx, &h2.ListenAndServeOpts{Addr: opts.MetricsAddr, Handler: mux})
		})
	}

	err = eg.Wait()
	logger.Info("stopped", "pairs", store.Map().Len())
	return err
}
