package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/samthor/bimultimap/bimap"
	"github.com/samthor/bimultimap/serve"
	"github.com/spf13/pflag"
	"golang.org/x/time/rate"
	"k8s.io/klog/v2"
)

type Options struct {
	Addr             string
	ServeAll         bool
	FakeSSL          bool
	MetricsAddr      string
	ConfigFile       string
	Ordered          bool
	SkipOriginVerify bool

	LimitBurst int
	LimitRate  float64
}

// fileConfig is the optional JSON config file.
// Seed holds the initial pairs as a flat object, with repeated keys for many right values.
type fileConfig struct {
	Limit *serve.LimitConfig            `json:"limit,omitempty"`
	Seed  *bimap.Multi[string, string] `json:"seed,omitempty"`
}

func NewOptions() *Options {
	return &Options{}
}

func (o *Options) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.Addr, "addr", "", "Address to serve on. If empty, uses the PORT env var or 8080.")
	flags.BoolVar(&o.ServeAll, "serve-all", false, "Serve on all interfaces rather than localhost, if --addr is empty.")
	flags.BoolVar(&o.FakeSSL, "fake-ssl", false, "Serve with a self-signed TLS certificate.")
	flags.StringVar(&o.MetricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on. Disabled if empty.")
	flags.StringVar(&o.ConfigFile, "config", "", "Path to a JSON config file with limits and initial pairs.")
	flags.BoolVar(&o.Ordered, "ordered", false, "Keep both sides in sorted order.")
	flags.BoolVar(&o.SkipOriginVerify, "skip-origin-verify", false, "Allow WebSocket connections from any origin.")
	flags.IntVar(&o.LimitBurst, "limit-burst", 0, "Per-session request burst. "+
		"Zero with a zero --limit-rate means unlimited.")
	flags.Float64Var(&o.LimitRate, "limit-rate", 0, "Per-session requests per second.")
	o.addKlogFlags(flags)
}

func (o *Options) addKlogFlags(flags *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	klog.InitFlags(klogFlags)

	klogFlags.VisitAll(func(f *flag.Flag) {
		f.Name = fmt.Sprintf("klog-%s", strings.ReplaceAll(f.Name, "_", "-"))
	})
	flags.AddGoFlagSet(klogFlags)
}

// limit returns the configured per-session limit, with flags taking precedence over the config file.
func (o *Options) limit(fc *fileConfig) *serve.LimitConfig {
	if o.LimitBurst != 0 || o.LimitRate != 0 {
		return &serve.LimitConfig{Burst: o.LimitBurst, Rate: rate.Limit(o.LimitRate)}
	}
	return fc.Limit
}

// newMulti builds the map to serve, containing any seed pairs.
func (o *Options) newMulti(fc *fileConfig) *bimap.Multi[string, string] {
	var m *bimap.Multi[string, string]
	if o.Ordered {
		m = bimap.NewOrderedOf[string, string]()
	} else {
		m = bimap.New[string, string]()
	}
	if fc.Seed != nil {
		m.Extend(fc.Seed.All())
	}
	return m
}

func loadConfig(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	if path == "" {
		return fc, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, fc); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return fc, nil
}
