package svgdoc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/svgflat/pkg/svgdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parent = `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 100 100">
  <rect width="10" height="10"/>
  <g><image xlink:href="a.svg" x="1"/></g>
  <image href="b.svg"/>
  <image xlink:href="c.png"/>
</svg>`

func TestImagesAndHref(t *testing.T) {
	doc, err := svgdoc.Parse([]byte(parent))
	require.NoError(t, err)

	imgs := svgdoc.Images(doc.Root())
	require.Len(t, imgs, 3)

	var hrefs []string
	for _, img := range imgs {
		h, _ := svgdoc.Href(img)
		hrefs = append(hrefs, h)
	}
	assert.Equal(t, []string{"a.svg", "b.svg", "c.png"}, hrefs)
	assert.Equal(t, "1", svgdoc.Attr(imgs[0], "x"))
	assert.Equal(t, "", svgdoc.Attr(imgs[0], "y"))

	svgdoc.SetHref(imgs[1], "file:///x/b.svg")
	h, a := svgdoc.Href(imgs[1])
	require.NotNil(t, a)
	assert.Equal(t, "file:///x/b.svg", h)
	assert.Equal(t, "", a.Space, "plain href stays plain")
}

func TestEnsureDefs(t *testing.T) {
	doc, err := svgdoc.Parse([]byte(parent))
	require.NoError(t, err)
	root := doc.Root()

	defs := svgdoc.EnsureDefs(root)
	assert.Equal(t, "defs", defs.Tag)
	assert.Equal(t, defs, root.ChildElements()[0])

	again := svgdoc.EnsureDefs(root)
	assert.Same(t, defs, again)
	assert.Len(t, root.SelectElements("defs"), 1)
}

func TestWrap(t *testing.T) {
	main, err := svgdoc.Parse([]byte(parent))
	require.NoError(t, err)
	root := main.Root()
	defs := svgdoc.EnsureDefs(root)

	sub, err := svgdoc.Parse([]byte(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns:sodipodi="urn:sodi">
  <defs><linearGradient id="grad"/></defs>
  <circle r="5" sodipodi:type="arc"/>
</svg>`))
	require.NoError(t, err)

	img := svgdoc.Images(root)[0]
	holder := img.Parent()
	g := svgdoc.Wrap(img, sub.Root(), defs, root, "translate(1,0)")

	assert.Equal(t, "g", g.Tag)
	assert.Equal(t, "translate(1,0)", g.SelectAttrValue("transform", ""))
	assert.Same(t, holder, g.Parent())
	assert.Equal(t, 0, g.Index())
	require.NotNil(t, g.SelectElement("circle"))
	assert.Nil(t, g.SelectElement("defs"))
	assert.NotNil(t, defs.SelectElement("linearGradient"))
	assert.Equal(t, "urn:sodi", root.SelectAttrValue("xmlns:sodipodi", ""))
	assert.Nil(t, g.SelectAttr("xmlns:sodipodi"), "declared on the root by the moved defs")
	assert.Nil(t, g.SelectAttr("xmlns:xlink"), "already declared on the root")
	assert.Len(t, svgdoc.Images(root), 2)
}

func TestWrap_NamespacesOnlyWhenNotInScope(t *testing.T) {
	main, err := svgdoc.Parse([]byte(parent))
	require.NoError(t, err)
	root := main.Root()
	defs := svgdoc.EnsureDefs(root)

	sub, err := svgdoc.Parse([]byte(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="urn:other" xmlns:inkscape="urn:ink">
  <path inkscape:label="p"/>
</svg>`))
	require.NoError(t, err)

	g := svgdoc.Wrap(svgdoc.Images(root)[0], sub.Root(), defs, root, "")
	assert.Equal(t, "urn:ink", g.SelectAttrValue("xmlns:inkscape", ""))
	assert.Equal(t, "urn:other", g.SelectAttrValue("xmlns:xlink", ""), "prefix rebound to another URI")
	assert.Nil(t, root.SelectAttr("xmlns:inkscape"))
}

func TestSaveWritesDeclaration(t *testing.T) {
	doc, err := svgdoc.Parse([]byte(parent))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.svg")
	require.NoError(t, svgdoc.Save(doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`), string(data))

	// saving twice does not stack declarations
	require.NoError(t, svgdoc.Save(doc, path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "<?xml"))
}

func TestLoad_Latin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.svg")
	content := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><svg xmlns="http://www.w3.org/2000/svg"><title>caf`), 0xe9)
	content = append(content, []byte(`</title></svg>`)...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	doc, err := svgdoc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "café", doc.Root().SelectElement("title").Text())
}

func TestLoad_Errors(t *testing.T) {
	_, err := svgdoc.Load(filepath.Join(t.TempDir(), "missing.svg"))
	assert.Error(t, err)

	_, err = svgdoc.Parse([]byte("<svg><unclosed></svg>"))
	assert.Error(t, err)
}
