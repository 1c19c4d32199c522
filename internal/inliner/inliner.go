package inliner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/svgflat/internal/keylock"
	"github.com/aretw0/svgflat/internal/logging"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/geometry"
	"github.com/aretw0/svgflat/pkg/ports"
	"github.com/aretw0/svgflat/pkg/resolve"
	"github.com/aretw0/svgflat/pkg/svgdoc"
	"github.com/beevik/etree"
)

var errCycle = errors.New("reference cycle")

// Inliner expands linked SVG documents. It is stateless between passes and
// safe to share; every pass owns its tree and definitions container.
type Inliner struct {
	normalizer   ports.Normalizer
	logger       *slog.Logger
	maxDepth     int
	detectCycles bool
	hooks        domain.Hooks
	files        *keylock.Manager
}

// New creates an Inliner that normalizes every target with n.
func New(n ports.Normalizer, opts ...Option) *Inliner {
	in := &Inliner{
		normalizer:   n,
		logger:       logging.NewNop(),
		maxDepth:     domain.DefaultMaxDepth,
		detectCycles: true,
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.files == nil {
		in.files = keylock.New(keylock.WithLogger(in.logger))
	}
	return in
}

// MaxDepth returns the configured depth bound.
func (in *Inliner) MaxDepth() int { return in.maxDepth }

// Pass is the state threaded through one top-level expansion.
type Pass struct {
	// Defs is the definitions container of the top-level document.
	Defs *etree.Element
	// Source is the file the top-level tree came from. It seeds cycle
	// detection; empty disables the seed.
	Source string
	// Report collects one event per reference. May be nil.
	Report *domain.Report

	stack map[string]bool
}

// NewPass prepares a pass over root, creating its <defs> when missing.
func NewPass(root *etree.Element, source string, report *domain.Report) *Pass {
	return &Pass{Defs: svgdoc.EnsureDefs(root), Source: source, Report: report}
}

// Inline expands every reference below root in document order. root is
// mutated in place; baseDir resolves relative hrefs.
func (in *Inliner) Inline(ctx context.Context, p *Pass, root *etree.Element, baseDir string, depth int) {
	if p.stack == nil {
		p.stack = make(map[string]bool)
		if p.Source != "" {
			if abs, err := filepath.Abs(p.Source); err == nil {
				p.stack[abs] = true
			}
		}
	}

	if depth > in.maxDepth {
		in.logger.Warn("Max recursion depth exceeded, stopping", "max_depth", in.maxDepth, "depth", depth)
		if in.hooks.OnDepthExceeded != nil {
			in.hooks.OnDepthExceeded(ctx, depth)
		}
		for _, img := range svgdoc.Images(root) {
			if href, _ := svgdoc.Href(img); resolve.IsInlineCandidate(href) {
				in.record(ctx, p, &domain.ReferenceEvent{
					Reference: domain.Reference{Href: href, Depth: depth},
					Outcome:   domain.OutcomeTooDeep,
				})
			}
		}
		return
	}

	// Snapshot: replacing an image must not disturb the walk.
	for _, img := range svgdoc.Images(root) {
		href, _ := svgdoc.Href(img)
		if !resolve.IsInlineCandidate(href) {
			continue
		}
		ev := &domain.ReferenceEvent{Reference: domain.Reference{
			Href:      href,
			Transform: svgdoc.Attr(img, "transform"),
			Depth:     depth,
		}}

		if err := ctx.Err(); err != nil {
			ev.Outcome, ev.Error = domain.OutcomeCanceled, err.Error()
			in.record(ctx, p, ev)
			continue
		}

		start := time.Now()
		err := in.inlineOne(ctx, p, img, baseDir, depth, ev)
		ev.Duration = time.Since(start)
		if err != nil {
			ev.Error = err.Error()
		}
		in.record(ctx, p, ev)
	}
}

func (in *Inliner) record(ctx context.Context, p *Pass, ev *domain.ReferenceEvent) {
	ev.Timestamp = time.Now()
	if p.Report != nil {
		p.Report.Record(*ev)
	}
	in.hooks.Emit(ctx, ev)
}

// inlineOne handles a single reference and fills ev. On error the image
// is left untouched.
func (in *Inliner) inlineOne(ctx context.Context, p *Pass, img *etree.Element, baseDir string, depth int, ev *domain.ReferenceEvent) error {
	href := ev.Reference.Href
	logger := in.logger.With("href", href, "depth", depth)

	path, err := resolve.PathFromHref(href, baseDir)
	if err == nil {
		path, err = filepath.Abs(path)
	}
	if err != nil || !svgdoc.Exists(path) {
		ev.Outcome = domain.OutcomeSkipped
		logger.Warn("Linked SVG not found", "path", path)
		if err == nil {
			err = fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return err
	}
	ev.Reference.Path = path
	logger = logger.With("file", filepath.Base(path))

	if in.detectCycles && p.stack[path] {
		ev.Outcome = domain.OutcomeCycle
		logger.Warn("Reference cycle, leaving image as is")
		return fmt.Errorf("%w: %s", errCycle, path)
	}

	logger.Info("Processing linked SVG")
	sub, err := in.Materialize(ctx, path)
	if err != nil {
		ev.Outcome = domain.OutcomeFailed
		logger.Error("Failed to load linked SVG", "err", err)
		return err
	}
	subRoot := sub.Root()

	p.stack[path] = true
	in.Inline(ctx, p, subRoot, filepath.Dir(path), depth+1)
	delete(p.stack, path)

	intrinsic, err := geometry.IntrinsicBox(
		svgdoc.Attr(subRoot, "viewBox"),
		svgdoc.Attr(subRoot, "width"),
		svgdoc.Attr(subRoot, "height"),
	)
	if err != nil {
		logger.Warn("Unusable intrinsic size, using fallback", "box", intrinsic.String(), "err", err)
	}

	placement, err := geometry.PlacementBox(
		svgdoc.Attr(img, "x"),
		svgdoc.Attr(img, "y"),
		svgdoc.Attr(img, "width"),
		svgdoc.Attr(img, "height"),
		intrinsic,
	)
	if err != nil {
		logger.Warn("Unusable placement, using defaults", "box", placement.String(), "err", err)
	}
	ev.Reference.Placement = placement

	tr := geometry.PlacementTransform(intrinsic, placement, ev.Reference.Transform).String()
	svgdoc.Wrap(img, subRoot, p.Defs, p.Defs.Parent(), tr)

	ev.Outcome = domain.OutcomeInlined
	ev.Transform = tr
	logger.Debug("Inlined linked SVG", "transform", tr)
	return nil
}

// Materialize normalizes path and parses the plain copy, which is removed
// before returning. Normalizers write to a fixed location next to the
// source, so calls for the same path are serialized.
func (in *Inliner) Materialize(ctx context.Context, path string) (*etree.Document, error) {
	var doc *etree.Document
	err := in.files.WithLock(ctx, path, func(ctx context.Context) error {
		plain, err := in.normalizer.Normalize(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to normalize %s: %w", filepath.Base(path), err)
		}
		defer func() {
			if rmErr := os.Remove(plain); rmErr != nil && !os.IsNotExist(rmErr) {
				in.logger.Warn("Failed to remove temporary plain SVG", "path", plain, "err", rmErr)
			}
		}()

		doc, err = svgdoc.Load(plain)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
		}
		return nil
	})
	return doc, err
}
