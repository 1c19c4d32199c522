package testutils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/stretchr/testify/require"
)

// SetupTree writes files (relative path -> content) into a fresh temp dir
// and returns its absolute path. It fails the test immediately on error.
func SetupTree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644), "Failed to write %s", name)
	}
	return dir
}

// CopyNormalizer is a ports.Normalizer that copies the input to
// plain_<name> unchanged, standing in for Inkscape.
type CopyNormalizer struct {
	mu    sync.Mutex
	Calls []string
	// Fail makes Normalize fail for these base names.
	Fail map[string]bool
}

func (n *CopyNormalizer) Normalize(ctx context.Context, path string) (string, error) {
	n.mu.Lock()
	n.Calls = append(n.Calls, path)
	fail := n.Fail[filepath.Base(path)]
	n.mu.Unlock()

	if fail {
		return "", fmt.Errorf("%w: fake failure for %s", domain.ErrConversionFailed, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	out := filepath.Join(filepath.Dir(path), domain.PlainPrefix+filepath.Base(path))
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConversionFailed, err)
	}
	return out, nil
}

// CallCount returns the number of Normalize calls so far.
func (n *CopyNormalizer) CallCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Calls)
}

// CopyExporter is a ports.Exporter that copies the SVG to the PDF path and
// remembers the last options.
type CopyExporter struct {
	Err      error
	LastOpts domain.ExportOptions
	LastSVG  []byte
}

func (e *CopyExporter) Export(ctx context.Context, svgPath, pdfPath string, opts domain.ExportOptions) error {
	e.LastOpts = opts
	if e.Err != nil {
		return e.Err
	}
	data, err := os.ReadFile(svgPath)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExportFailed, err)
	}
	e.LastSVG = data
	return os.WriteFile(pdfPath, data, 0o644)
}

// SVG wraps body in an svg root declaring the SVG and XLink namespaces.
func SVG(attrs, body string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" ` +
		attrs + `>` + body + `</svg>`
}
