package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10, cfg.MaxDepth)
	assert.Equal(t, "inkscape", cfg.Normalizer.Command)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(`
max_depth: 4
allow_cycles: true
normalizer:
  command: rsvg-convert
  args: ["-f", "svg", "-o", "{output}", "{input}"]
cache:
  backend: redis
  redis:
    addr: redis:6379
    ttl: 1h
`), 0o644))

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.MaxDepth)
	assert.True(t, cfg.AllowCycles)
	assert.Equal(t, "rsvg-convert", cfg.Normalizer.Command)
	assert.Equal(t, []string{"-f", "svg", "-o", "{output}", "{input}"}, cfg.Normalizer.Args)
	assert.Equal(t, "inkscape", cfg.Exporter.Command, "untouched sections keep defaults")
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, "svgflat:plain:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, time.Hour, cfg.Cache.Redis.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("max_depth: 4\n"), 0o644))

	t.Setenv("SVGFLAT_MAX_DEPTH", "2")
	t.Setenv("SVGFLAT_KEEP_TEMP", "true")
	t.Setenv("SVGFLAT_CACHE_BACKEND", "file")
	t.Setenv("SVGFLAT_CACHE_REDIS_TTL", "30s")
	t.Setenv("SVGFLAT_CACHE_REDIS_DB", "3")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.True(t, cfg.KeepTemp)
	assert.Equal(t, CacheFile, cfg.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.Redis.TTL)
	assert.Equal(t, 3, cfg.Cache.Redis.DB)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "memcached"
	cfg.MaxDepth = -1
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memcached")
	assert.Contains(t, err.Error(), "max_depth")
	assert.Contains(t, err.Error(), "xml")
}

func TestOverlayEnv_BuildsNestedMaps(t *testing.T) {
	raw := map[string]any{"cache": map[string]any{"backend": "memory"}}
	overlayEnv(raw, func(name string) (string, bool) {
		if name == "SVGFLAT_CACHE_REDIS_ADDR" {
			return "h:1", true
		}
		return "", false
	})
	cache := raw["cache"].(map[string]any)
	assert.Equal(t, "memory", cache["backend"])
	assert.Equal(t, "h:1", cache["redis"].(map[string]any)["addr"])
}
