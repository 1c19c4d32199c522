package svgflat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/ports"
)

// CachedNormalizer skips the external tool for files whose content was
// normalized before. Entries are keyed by the SHA-256 of the source bytes.
type CachedNormalizer struct {
	next    ports.Normalizer
	cache   ports.Cache
	logger  *slog.Logger
	observe func(hit bool)
}

// CacheOption configures a CachedNormalizer.
type CacheOption func(*CachedNormalizer)

// CacheLogger sets the logger for cache warnings.
func CacheLogger(l *slog.Logger) CacheOption {
	return func(c *CachedNormalizer) {
		if l != nil {
			c.logger = l
		}
	}
}

// CacheObserver is called with the outcome of every lookup.
func CacheObserver(fn func(hit bool)) CacheOption {
	return func(c *CachedNormalizer) {
		c.observe = fn
	}
}

// NewCachedNormalizer decorates next with cache.
func NewCachedNormalizer(next ports.Normalizer, cache ports.Cache, opts ...CacheOption) *CachedNormalizer {
	c := &CachedNormalizer{next: next, cache: cache, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentKey returns the cache key of a source document.
func ContentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *CachedNormalizer) Normalize(ctx context.Context, path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		// Let the wrapped normalizer report the failure in its own terms.
		return c.next.Normalize(ctx, path)
	}
	key := ContentKey(src)
	out := filepath.Join(filepath.Dir(path), domain.PlainPrefix+filepath.Base(path))

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		werr := os.WriteFile(out, cached, 0o644)
		if werr == nil {
			c.report(true)
			c.logger.Debug("Normalization cache hit", "file", filepath.Base(path), "key", key[:12])
			return out, nil
		}
		c.logger.Warn("Failed to materialize cached document", "path", out, "err", werr)
	case !errors.Is(err, domain.ErrCacheMiss):
		c.logger.Warn("Normalization cache unavailable", "err", err)
	}
	c.report(false)

	out, err = c.next.Normalize(ctx, path)
	if err != nil {
		return "", err
	}
	plain, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	if err := c.cache.Put(ctx, key, plain); err != nil {
		c.logger.Warn("Failed to store normalized document", "file", filepath.Base(path), "err", err)
	}
	return out, nil
}

func (c *CachedNormalizer) report(hit bool) {
	if c.observe != nil {
		c.observe(hit)
	}
}
