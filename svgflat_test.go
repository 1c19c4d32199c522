package svgflat_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/testutils"
	"github.com/aretw0/svgflat/pkg/adapters/memory"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/ports"
	"github.com/aretw0/svgflat/pkg/svgdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func poster(t *testing.T) string {
	return testutils.SetupTree(t, map[string]string{
		"poster.svg": testutils.SVG(`viewBox="0 0 100 100"`,
			`<image xlink:href="child.svg" x="10" y="20" width="50" height="50"/>`+
				`<image xlink:href="logo.png" width="5" height="5"/>`+
				`<image xlink:href="missing.svg"/>`),
		"child.svg": testutils.SVG(`viewBox="0 0 200 200"`, `<defs><linearGradient id="g1"/></defs><rect width="200" height="200"/>`),
		"logo.png":  "png",
	})
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestConvert_EndToEnd(t *testing.T) {
	dir := poster(t)
	exp := &testutils.CopyExporter{}
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}), svgflat.WithExporter(exp))

	out := filepath.Join(dir, "poster.pdf")
	report, err := f.Convert(context.Background(), filepath.Join(dir, "poster.svg"), out, svgflat.ConvertOptions{TextToPath: true})
	require.NoError(t, err)

	assert.True(t, exp.LastOpts.TextToPath)
	assert.FileExists(t, out)
	assert.Equal(t, out, report.Output)
	assert.Equal(t, 1, report.Count(domain.OutcomeInlined))
	assert.Equal(t, 1, report.Count(domain.OutcomeSkipped))

	flat := string(exp.LastSVG)
	assert.True(t, strings.HasPrefix(flat, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, flat, `transform="translate(10,20) scale(0.25,0.25) translate(0,0)"`)
	assert.Contains(t, flat, `xlink:href="missing.svg"`, "unresolvable hrefs stay as written")
	assert.Contains(t, flat, `xlink:href="file:///`, "resolvable hrefs become absolute")

	doc, err := svgdoc.Parse(exp.LastSVG)
	require.NoError(t, err)
	first := doc.Root().ChildElements()[0]
	assert.Equal(t, "defs", first.Tag)
	assert.NotNil(t, first.SelectElement("linearGradient"))

	assert.ElementsMatch(t, []string{"poster.svg", "child.svg", "logo.png", "poster.pdf"}, listDir(t, dir),
		"intermediate files are cleaned up")
}

func TestConvert_KeepTemp(t *testing.T) {
	dir := poster(t)
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}), svgflat.WithExporter(&testutils.CopyExporter{}))

	input := filepath.Join(dir, "poster.svg")
	_, err := f.Convert(context.Background(), input, filepath.Join(dir, "out.pdf"), svgflat.ConvertOptions{KeepTemp: true})
	require.NoError(t, err)
	assert.FileExists(t, svgflat.FlattenedPath(input))
	assert.Equal(t, filepath.Join(dir, "temp_inlined_poster.svg"), svgflat.FlattenedPath(input))
}

func TestConvert_MissingInput(t *testing.T) {
	norm := &testutils.CopyNormalizer{}
	f := svgflat.New(svgflat.WithNormalizer(norm), svgflat.WithExporter(&testutils.CopyExporter{}))

	_, err := f.Convert(context.Background(), filepath.Join(t.TempDir(), "nope.svg"), "out.pdf", svgflat.ConvertOptions{})
	require.ErrorIs(t, err, domain.ErrInputNotFound)
	assert.Contains(t, err.Error(), "input SVG not found")
	assert.Zero(t, norm.CallCount())
}

func TestConvert_ExportFailureCleansUp(t *testing.T) {
	dir := poster(t)
	exp := &testutils.CopyExporter{Err: domain.ErrExportFailed}
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}), svgflat.WithExporter(exp))

	input := filepath.Join(dir, "poster.svg")
	_, err := f.Convert(context.Background(), input, filepath.Join(dir, "out.pdf"), svgflat.ConvertOptions{})
	assert.ErrorIs(t, err, domain.ErrExportFailed)
	assert.NoFileExists(t, svgflat.FlattenedPath(input))
}

func TestFlatten_TopLevelNormalizationIsFatal(t *testing.T) {
	dir := poster(t)
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{Fail: map[string]bool{"poster.svg": true}}))

	_, _, err := f.Flatten(context.Background(), filepath.Join(dir, "poster.svg"))
	assert.ErrorIs(t, err, domain.ErrConversionFailed)
}

func TestFlatten_CanceledContext(t *testing.T) {
	dir := poster(t)
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := filepath.Join(dir, "poster.svg")
	_, report, err := f.Flatten(ctx, input)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.NoFileExists(t, svgflat.FlattenedPath(input))
}

func TestFlatten_Cache(t *testing.T) {
	dir := poster(t)
	norm := &testutils.CopyNormalizer{}
	var hits, misses int
	f := svgflat.New(
		svgflat.WithNormalizer(norm),
		svgflat.WithCache(memory.NewCache()),
		svgflat.WithCacheObserver(func(hit bool) {
			if hit {
				hits++
			} else {
				misses++
			}
		}),
	)

	input := filepath.Join(dir, "poster.svg")
	first, _, err := f.Flatten(context.Background(), input)
	require.NoError(t, err)
	firstData, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, 2, norm.CallCount())

	second, _, err := f.Flatten(context.Background(), input)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, 2, norm.CallCount(), "second run is served from the cache")
	assert.Equal(t, 2, hits)
	assert.Equal(t, 2, misses)
	assert.Equal(t, string(firstData), string(secondData))
}

func TestGraph(t *testing.T) {
	dir := testutils.SetupTree(t, map[string]string{
		"a.svg":     testutils.SVG(``, `<image xlink:href="b.svg"/><image xlink:href="gone.svg"/><image xlink:href="pic.jpg"/>`),
		"b.svg":     testutils.SVG(``, `<image xlink:href="sub/c.svg"/><image xlink:href="a.svg"/>`),
		"sub/c.svg": testutils.SVG(``, `<rect/>`),
	})
	norm := &testutils.CopyNormalizer{}
	f := svgflat.New(svgflat.WithNormalizer(norm))

	root, err := f.Graph(context.Background(), filepath.Join(dir, "a.svg"))
	require.NoError(t, err)
	assert.Zero(t, norm.CallCount(), "graph discovery never normalizes")

	require.Len(t, root.Children, 2)
	b, gone := root.Children[0], root.Children[1]
	assert.Equal(t, domain.LinkOK, b.Status)
	assert.Equal(t, domain.LinkMissing, gone.Status)

	require.Len(t, b.Children, 2)
	assert.Equal(t, domain.LinkOK, b.Children[0].Status)
	assert.Equal(t, filepath.Join(dir, "sub", "c.svg"), b.Children[0].Path)
	assert.Equal(t, 2, b.Children[0].Depth)
	assert.Equal(t, domain.LinkCycle, b.Children[1].Status)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.svg"),
		filepath.Join(dir, "b.svg"),
		filepath.Join(dir, "sub", "c.svg"),
	}, root.Files())
}

func TestGraph_DepthBound(t *testing.T) {
	dir := testutils.SetupTree(t, map[string]string{
		"a.svg": testutils.SVG(``, `<image xlink:href="b.svg"/>`),
		"b.svg": testutils.SVG(``, `<image xlink:href="c.svg"/>`),
		"c.svg": testutils.SVG(``, `<rect/>`),
	})
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}), svgflat.WithMaxDepth(0))

	root, err := f.Graph(context.Background(), filepath.Join(dir, "a.svg"))
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	b := root.Children[0]
	assert.Equal(t, domain.LinkOK, b.Status)
	require.Len(t, b.Children, 1)
	assert.Equal(t, domain.LinkTooDeep, b.Children[0].Status)
}

func TestFlattenTo_MovesResult(t *testing.T) {
	dir := poster(t)
	f := svgflat.New(svgflat.WithNormalizer(&testutils.CopyNormalizer{}))

	out := filepath.Join(dir, "flat.svg")
	report, err := f.FlattenTo(context.Background(), filepath.Join(dir, "poster.svg"), out)
	require.NoError(t, err)
	assert.Equal(t, out, report.Output)
	assert.FileExists(t, out)
	assert.NoFileExists(t, svgflat.FlattenedPath(filepath.Join(dir, "poster.svg")))
}

func TestFlatten_ConcurrentInputsSharingLinkedFile(t *testing.T) {
	files := map[string]string{
		"shared.svg": testutils.SVG(`viewBox="0 0 10 10"`, `<rect width="10" height="10"/>`),
	}
	inputs := []string{"a.svg", "b.svg", "c.svg", "d.svg"}
	for _, name := range inputs {
		files[name] = testutils.SVG(`viewBox="0 0 100 100"`, `<image xlink:href="shared.svg" width="50" height="50"/>`)
	}
	dir := testutils.SetupTree(t, files)

	copier := &testutils.CopyNormalizer{}
	slow := ports.NormalizerFunc(func(ctx context.Context, path string) (string, error) {
		out, err := copier.Normalize(ctx, path)
		time.Sleep(20 * time.Millisecond)
		return out, err
	})
	f := svgflat.New(svgflat.WithNormalizer(slow))

	reports := make([]*domain.Report, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, name := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, reports[i], errs[i] = f.Flatten(context.Background(), filepath.Join(dir, name))
		}()
	}
	wg.Wait()

	for i, name := range inputs {
		require.NoError(t, errs[i], name)
		assert.Equal(t, 1, reports[i].Count(domain.OutcomeInlined), "%s: %+v", name, reports[i].Events)
		assert.Equal(t, 0, reports[i].Count(domain.OutcomeFailed), name)
	}
	assert.NoFileExists(t, filepath.Join(dir, domain.PlainPrefix+"shared.svg"))
}
