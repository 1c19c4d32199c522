package ports

import (
	"context"

	"github.com/aretw0/svgflat/pkg/domain"
)

// Normalizer produces a canonical ("plain") SVG for a given file.
type Normalizer interface {
	// Normalize writes the canonical document next to path and returns its location.
	// The caller owns the returned file and removes it when done.
	// Failures wrap domain.ErrConversionFailed.
	Normalize(ctx context.Context, path string) (string, error)
}

// Exporter renders a flattened SVG file to PDF.
type Exporter interface {
	// Export writes the PDF to pdfPath. Failures wrap domain.ErrExportFailed.
	Export(ctx context.Context, svgPath, pdfPath string, opts domain.ExportOptions) error
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(ctx context.Context, path string) (string, error)

func (f NormalizerFunc) Normalize(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(ctx context.Context, svgPath, pdfPath string, opts domain.ExportOptions) error

func (f ExporterFunc) Export(ctx context.Context, svgPath, pdfPath string, opts domain.ExportOptions) error {
	return f(ctx, svgPath, pdfPath, opts)
}
