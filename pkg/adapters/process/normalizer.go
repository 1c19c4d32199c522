package process

import (
	"context"
	"path/filepath"

	"github.com/aretw0/svgflat/pkg/domain"
)

// Normalizer produces plain SVG files by running an external tool.
type Normalizer struct {
	runner *Runner
	cfg    CommandConfig
}

// NewNormalizer creates a normalizer. An empty cfg uses Inkscape.
func NewNormalizer(cfg CommandConfig, opts ...RunnerOption) *Normalizer {
	return &Normalizer{runner: NewRunner(opts...), cfg: cfg.WithDefaults(DefaultNormalizeCommand())}
}

// PlainPath is where the plain copy of path is written.
func PlainPath(path string) string {
	return filepath.Join(filepath.Dir(path), domain.PlainPrefix+filepath.Base(path))
}

// Normalize writes plain_<name> next to path and returns its location.
// The caller owns the file.
func (n *Normalizer) Normalize(ctx context.Context, path string) (string, error) {
	out := PlainPath(path)
	if err := n.runner.Run(ctx, n.cfg, n.cfg.Expand(path, out), out, domain.ErrConversionFailed); err != nil {
		return "", err
	}
	return out, nil
}

// Available reports whether the configured tool is installed.
func (n *Normalizer) Available() error {
	return Available(n.cfg)
}
