package svgdoc

import (
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/beevik/etree"
)

func isSVG(e *etree.Element, tag string) bool {
	if e.Tag != tag {
		return false
	}
	return e.Space == "" || e.NamespaceURI() == domain.SVGNamespace
}

// Images returns every <image> element below root in document order.
// The slice is a snapshot: callers may replace the returned elements
// while iterating without disturbing the walk.
func Images(root *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, c := range e.ChildElements() {
			if isSVG(c, "image") {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

// Href returns the link of an image element: xlink:href when present,
// otherwise the SVG 2 plain href. The returned attribute may be nil.
func Href(e *etree.Element) (string, *etree.Attr) {
	var plain *etree.Attr
	for i := range e.Attr {
		a := &e.Attr[i]
		if a.Key != "href" {
			continue
		}
		switch {
		case a.Space == "xlink" || (a.Space != "" && a.NamespaceURI() == domain.XLinkNamespace):
			return a.Value, a
		case a.Space == "" && plain == nil:
			plain = a
		}
	}
	if plain != nil {
		return plain.Value, plain
	}
	return "", nil
}

// SetHref rewrites the link of an image element in place, keeping
// whichever attribute form it already used.
func SetHref(e *etree.Element, href string) {
	if _, a := Href(e); a != nil {
		a.Value = href
		return
	}
	e.CreateAttr("xlink:href", href)
}

// Attr returns the value of an unprefixed attribute, or "" when absent.
func Attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// EnsureDefs returns the <defs> child of root, inserting an empty one as
// the first child when there is none.
func EnsureDefs(root *etree.Element) *etree.Element {
	for _, c := range root.ChildElements() {
		if isSVG(c, "defs") {
			return c
		}
	}
	defs := etree.NewElement("defs")
	defs.Space = root.Space
	root.InsertChildAt(0, defs)
	return defs
}

// CarryNamespaces copies prefixed namespace declarations of from onto to,
// skipping prefixes that to declares itself or that are already bound to
// the same URI on one of its ancestors.
func CarryNamespaces(from, to *etree.Element) {
	for _, a := range from.Attr {
		if a.Space != "xmlns" {
			continue
		}
		if to.SelectAttr("xmlns:"+a.Key) != nil {
			continue
		}
		if uri, ok := namespaceInScope(to.Parent(), a.Key); ok && uri == a.Value {
			continue
		}
		to.CreateAttr("xmlns:"+a.Key, a.Value)
	}
}

// namespaceInScope returns the URI the nearest declaration binds prefix to,
// searching e and its ancestors.
func namespaceInScope(e *etree.Element, prefix string) (string, bool) {
	for ; e != nil; e = e.Parent() {
		if a := e.SelectAttr("xmlns:" + prefix); a != nil {
			return a.Value, true
		}
	}
	return "", false
}

// Wrap moves the content of a sub-document root into a new group that
// replaces ref in its parent. Children of the sub-document's <defs> are
// appended to defs instead; mainRoot receives any namespace declaration
// those moved definitions need. The group is returned.
func Wrap(ref, subRoot, defs, mainRoot *etree.Element, transform string) *etree.Element {
	g := etree.NewElement("g")
	g.Space = ref.Space
	if transform != "" {
		g.CreateAttr("transform", transform)
	}

	tokens := append([]etree.Token(nil), subRoot.Child...)
	for _, t := range tokens {
		if c, ok := t.(*etree.Element); ok && isSVG(c, "defs") {
			if len(c.ChildElements()) > 0 {
				CarryNamespaces(subRoot, mainRoot)
			}
			for _, d := range append([]etree.Token(nil), c.Child...) {
				defs.AddChild(d)
			}
			continue
		}
		g.AddChild(t)
	}

	Replace(ref, g)
	CarryNamespaces(subRoot, g)
	return g
}

// Replace puts with at the position of old in old's parent.
func Replace(old, with *etree.Element) {
	parent := old.Parent()
	if parent == nil {
		return
	}
	i := old.Index()
	parent.RemoveChildAt(i)
	parent.InsertChildAt(i, with)
}
