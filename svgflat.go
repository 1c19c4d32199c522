package svgflat

import (
	"log/slog"

	"github.com/aretw0/svgflat/internal/inliner"
	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/pkg/adapters/process"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/ports"
)

// Flattener is the high-level entry point of the library.
// It is safe for concurrent use: passes sharing a linked file take turns
// normalizing it.
type Flattener struct {
	normalizer   ports.Normalizer
	exporter     ports.Exporter
	cache        ports.Cache
	logger       *slog.Logger
	maxDepth     int
	detectCycles bool
	hooks        domain.Hooks
	onCache      func(hit bool)
	files        *keylock.Manager
}

// Option defines a functional option for configuring the Flattener.
type Option func(*Flattener)

// WithNormalizer replaces the default Inkscape normalizer.
func WithNormalizer(n ports.Normalizer) Option {
	return func(f *Flattener) {
		f.normalizer = n
	}
}

// WithExporter replaces the default Inkscape exporter.
func WithExporter(e ports.Exporter) Option {
	return func(f *Flattener) {
		f.exporter = e
	}
}

// WithCache enables the normalization cache.
func WithCache(c ports.Cache) Option {
	return func(f *Flattener) {
		f.cache = c
	}
}

// WithCacheObserver is called after every cache lookup.
func WithCacheObserver(fn func(hit bool)) Option {
	return func(f *Flattener) {
		f.onCache = fn
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Flattener) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxDepth bounds the nesting of linked documents.
func WithMaxDepth(n int) Option {
	return func(f *Flattener) {
		if n >= 0 {
			f.maxDepth = n
		}
	}
}

// WithCycleDetection toggles skipping self-referencing links.
func WithCycleDetection(enabled bool) Option {
	return func(f *Flattener) {
		f.detectCycles = enabled
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(f *Flattener) {
		f.hooks = f.hooks.Merge(hooks)
	}
}

// New creates a Flattener. Without options it shells out to Inkscape for
// both normalization and export, logs nothing and caches nothing.
func New(opts ...Option) *Flattener {
	f := &Flattener{
		logger:       logging.NewNop(),
		maxDepth:     domain.DefaultMaxDepth,
		detectCycles: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.files = keylock.New(keylock.WithLogger(f.logger))
	if f.normalizer == nil {
		f.normalizer = process.NewNormalizer(process.CommandConfig{}, process.WithLogger(f.logger))
	}
	if f.exporter == nil {
		f.exporter = process.NewExporter(process.CommandConfig{}, process.WithLogger(f.logger))
	}
	if f.cache != nil {
		f.normalizer = NewCachedNormalizer(f.normalizer, f.cache,
			CacheLogger(f.logger), CacheObserver(f.onCache))
	}
	return f
}

func (f *Flattener) inliner() *inliner.Inliner {
	return inliner.New(f.normalizer,
		inliner.WithLogger(f.logger),
		inliner.WithMaxDepth(f.maxDepth),
		inliner.WithCycleDetection(f.detectCycles),
		inliner.WithHooks(f.hooks),
		inliner.WithFileLocks(f.files),
	)
}
