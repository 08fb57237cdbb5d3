package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samthor/bimultimap/serve"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"limit":{"b":5,"r":2.5},"seed":{"a":"x","a":"y","b":"x"}}`), 0o644)
	require.NoError(t, err)

	fc, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 5, fc.Limit.Burst)
	require.Equal(t, rate.Limit(2.5), fc.Limit.Rate)

	o := NewOptions()
	m := o.newMulti(fc)
	require.Equal(t, 3, m.Len())
	require.True(t, m.Has("a", "y"))

	require.Equal(t, fc.Limit, o.limit(fc))
}

func TestLoadConfigEmpty(t *testing.T) {
	fc, err := loadConfig("")
	require.NoError(t, err)
	require.Nil(t, fc.Limit)
	require.Equal(t, 0, NewOptions().newMulti(fc).Len())

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o := NewOptions()
	o.AddFlags(flags)

	err := flags.Parse([]string{"--limit-burst=3", "--limit-rate=1", "--ordered", "--klog-v=2"})
	require.NoError(t, err)

	limit := o.limit(&fileConfig{})
	require.Equal(t, 3, limit.Burst)
	require.Equal(t, rate.Limit(1), limit.Rate)

	m := o.newMulti(&fileConfig{})
	m.Insert("b", "1")
	m.Insert("a", "2")
	var lefts []string
	for l := range m.Lefts() {
		lefts = append(lefts, l)
	}
	require.Equal(t, []string{"a", "b"}, lefts)
}

func TestRunRejectsBadLimit(t *testing.T) {
	o := NewOptions()
	o.LimitRate = 5

	err := run(t.Context(), o)
	require.ErrorIs(t, err, serve.ErrBadLimit)
}
