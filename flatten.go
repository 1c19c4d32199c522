package svgflat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/svgflat/internal/inliner"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/resolve"
	"github.com/aretw0/svgflat/pkg/svgdoc"
	"github.com/beevik/etree"
)

// ConvertOptions controls a single Convert call.
type ConvertOptions struct {
	// KeepTemp retains the intermediate temp_inlined_<name> file.
	KeepTemp bool
	// TextToPath converts text to outlines during export.
	TextToPath bool
}

func inputPath(input string) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrInputNotFound, input, err)
	}
	if !svgdoc.Exists(abs) {
		return "", fmt.Errorf("%w: %s", domain.ErrInputNotFound, input)
	}
	return abs, nil
}

// CheckInput returns domain.ErrInputNotFound when input is not an existing file.
func CheckInput(input string) error {
	_, err := inputPath(input)
	return err
}

// FlattenedPath is where Flatten writes the result for input.
func FlattenedPath(input string) string {
	return filepath.Join(filepath.Dir(input), domain.InlinedPrefix+filepath.Base(input))
}

// Flatten expands every linked SVG of input and writes the result to
// temp_inlined_<name> next to it. The caller owns the returned file.
func (f *Flattener) Flatten(ctx context.Context, input string) (string, *domain.Report, error) {
	abs, err := inputPath(input)
	if err != nil {
		return "", nil, err
	}
	report := domain.NewReport(abs)
	logger := f.logger.With("input", filepath.Base(abs))

	in := f.inliner()

	logger.Info("Converting main SVG to plain SVG")
	doc, err := in.Materialize(ctx, abs)
	if err != nil {
		return "", report, err
	}
	root := doc.Root()
	pass := inliner.NewPass(root, abs, report)

	f.absolutize(root, filepath.Dir(abs))

	logger.Info("Starting recursive inlining of nested SVGs")
	in.Inline(ctx, pass, root, filepath.Dir(abs), 0)

	if err := ctx.Err(); err != nil {
		return "", report, err
	}

	out := FlattenedPath(abs)
	if err := svgdoc.Save(doc, out); err != nil {
		return "", report, err
	}
	report.Output = out
	logger.Info("Fully inlined SVG saved", "path", out,
		"inlined", report.Count(domain.OutcomeInlined),
		"skipped", len(report.Events)-report.Count(domain.OutcomeInlined))
	return out, report, nil
}

// absolutize rewrites the top-level image hrefs as file URIs, best effort.
func (f *Flattener) absolutize(root *etree.Element, dir string) {
	for _, img := range svgdoc.Images(root) {
		href, _ := svgdoc.Href(img)
		if href == "" {
			continue
		}
		abs, err := resolve.AbsoluteHref(href, dir)
		if err != nil {
			f.logger.Warn("Linked file not found", "href", href, "err", err)
			continue
		}
		if abs != href {
			svgdoc.SetHref(img, abs)
			f.logger.Debug("Made path absolute", "href", abs)
		}
	}
}

// Convert flattens input and exports it to output as PDF. The flattened
// intermediate file is removed whether export succeeds or not, unless
// opts.KeepTemp is set.
func (f *Flattener) Convert(ctx context.Context, input, output string, opts ConvertOptions) (*domain.Report, error) {
	if _, err := inputPath(input); err != nil {
		return nil, err
	}

	flat, report, err := f.Flatten(ctx, input)
	if err != nil {
		return report, err
	}
	defer func() {
		if opts.KeepTemp {
			f.logger.Info("Keeping flattened SVG", "path", flat)
			return
		}
		if rmErr := os.Remove(flat); rmErr != nil && !os.IsNotExist(rmErr) {
			f.logger.Warn("Failed to remove flattened SVG", "path", flat, "err", rmErr)
		}
	}()

	f.logger.Info("Exporting to PDF", "output", output, "text_to_path", opts.TextToPath)
	if err := f.exporter.Export(ctx, flat, output, domain.ExportOptions{TextToPath: opts.TextToPath}); err != nil {
		return report, fmt.Errorf("failed to export %s: %w", output, err)
	}
	report.Output = output
	return report, nil
}

// FlattenTo flattens input and moves the result to output. An empty output
// leaves the file at FlattenedPath(input).
func (f *Flattener) FlattenTo(ctx context.Context, input, output string) (*domain.Report, error) {
	flat, report, err := f.Flatten(ctx, input)
	if err != nil || output == "" {
		return report, err
	}
	dst, err := filepath.Abs(output)
	if err != nil {
		return report, err
	}
	if dst == flat {
		return report, nil
	}
	if err := os.Rename(flat, dst); err != nil {
		_ = os.Remove(flat)
		return report, fmt.Errorf("failed to write %s: %w", output, err)
	}
	report.Output = dst
	return report, nil
}
