package inliner

import (
	"log/slog"

	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/pkg/domain"
)

// Option configures an Inliner.
type Option func(*Inliner)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Inliner) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithMaxDepth bounds the nesting of linked documents (default 10).
func WithMaxDepth(n int) Option {
	return func(in *Inliner) {
		if n >= 0 {
			in.maxDepth = n
		}
	}
}

// WithCycleDetection toggles skipping references to a file that is already
// being expanded further up. Enabled by default.
func WithCycleDetection(enabled bool) Option {
	return func(in *Inliner) {
		in.detectCycles = enabled
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(in *Inliner) {
		in.hooks = in.hooks.Merge(hooks)
	}
}

// WithFileLocks shares the per-file locks guarding normalized copies. Every
// Inliner working in the same directories must use the same Manager.
func WithFileLocks(m *keylock.Manager) Option {
	return func(in *Inliner) {
		if m != nil {
			in.files = m
		}
	}
}
