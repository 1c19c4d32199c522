// Package config loads svgflat settings from svgflat.yaml and SVGFLAT_*
// environment variables. Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/pkg/adapters/process"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "svgflat.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SVGFLAT_"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

type Config struct {
	MaxDepth    int                   `yaml:"max_depth" mapstructure:"max_depth"`
	AllowCycles bool                  `yaml:"allow_cycles" mapstructure:"allow_cycles"`
	KeepTemp    bool                  `yaml:"keep_temp" mapstructure:"keep_temp"`
	TextToPath  bool                  `yaml:"text_to_path" mapstructure:"text_to_path"`
	Normalizer  process.CommandConfig `yaml:"normalizer" mapstructure:"normalizer"`
	Exporter    process.CommandConfig `yaml:"exporter" mapstructure:"exporter"`
	ToolsFile   string                `yaml:"tools_file" mapstructure:"tools_file"`
	WorkDir     string                `yaml:"work_dir" mapstructure:"work_dir"`
	Cache       CacheConfig           `yaml:"cache" mapstructure:"cache"`
	MetricsFile string                `yaml:"metrics_file" mapstructure:"metrics_file"`
	LogFormat   string                `yaml:"log_format" mapstructure:"log_format"`
	Port        int                   `yaml:"port" mapstructure:"port"`
}

type CacheConfig struct {
	Backend string      `yaml:"backend" mapstructure:"backend"`
	Dir     string      `yaml:"dir" mapstructure:"dir"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxDepth:   domain.DefaultMaxDepth,
		Normalizer: process.DefaultNormalizeCommand(),
		Exporter:   process.DefaultExportCommand(),
		Cache: CacheConfig{
			Backend: CacheNone,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "svgflat:plain:"},
		},
		LogFormat: string(logging.FormatText),
		Port:      8080,
	}
}

// envKeys lists the settings that can be overridden from the environment.
// SVGFLAT_CACHE_REDIS_ADDR maps to cache.redis.addr, and so on.
var envKeys = [][]string{
	{"max_depth"},
	{"allow_cycles"},
	{"keep_temp"},
	{"text_to_path"},
	{"metrics_file"},
	{"log_format"},
	{"port"},
	{"tools_file"},
	{"work_dir"},
	{"normalizer", "command"},
	{"exporter", "command"},
	{"cache", "backend"},
	{"cache", "dir"},
	{"cache", "redis", "addr"},
	{"cache", "redis", "password"},
	{"cache", "redis", "db"},
	{"cache", "redis", "prefix"},
	{"cache", "redis", "ttl"},
}

// Load reads path (when it exists), overlays the environment and decodes
// the result over Default(). A missing file is an error only when
// required is set.
func Load(path string, required bool) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if raw == nil {
				raw = map[string]any{}
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	overlayEnv(raw, os.LookupEnv)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

func overlayEnv(raw map[string]any, lookup func(string) (string, bool)) {
	for _, key := range envKeys {
		name := EnvPrefix + strings.ToUpper(strings.Join(key, "_"))
		v, ok := lookup(name)
		if !ok {
			continue
		}
		m := raw
		for _, k := range key[:len(key)-1] {
			next, ok := m[k].(map[string]any)
			if !ok {
				next = map[string]any{}
				m[k] = next
			}
			m = next
		}
		m[key[len(key)-1]] = v
	}
}

// Validate reports settings no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must be >= 0, got %d", c.MaxDepth))
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheFile, CacheRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q (want none, memory, file or redis)", c.Cache.Backend))
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, err)
	}
	if c.Normalizer.Command == "" || c.Exporter.Command == "" {
		errs = append(errs, errors.New("normalizer and exporter commands must not be empty"))
	}
	return errors.Join(errs...)
}
