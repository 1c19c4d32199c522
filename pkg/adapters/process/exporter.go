package process

import (
	"context"

	"github.com/aretw0/svgflat/pkg/domain"
)

// Exporter renders SVG files to PDF by running an external tool.
type Exporter struct {
	runner *Runner
	cfg    CommandConfig
}

// NewExporter creates an exporter. An empty cfg uses Inkscape.
func NewExporter(cfg CommandConfig, opts ...RunnerOption) *Exporter {
	return &Exporter{runner: NewRunner(opts...), cfg: cfg.WithDefaults(DefaultExportCommand())}
}

func (e *Exporter) Export(ctx context.Context, svgPath, pdfPath string, opts domain.ExportOptions) error {
	var extra []string
	if opts.TextToPath {
		extra = e.cfg.TextToPathArgs
	}
	return e.runner.Run(ctx, e.cfg, e.cfg.Expand(svgPath, pdfPath, extra...), pdfPath, domain.ErrExportFailed)
}

// Available reports whether the configured tool is installed.
func (e *Exporter) Available() error {
	return Available(e.cfg)
}
