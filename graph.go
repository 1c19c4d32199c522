package svgflat

import (
	"context"
	"path/filepath"

	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/aretw0/svgflat/pkg/resolve"
	"github.com/aretw0/svgflat/pkg/svgdoc"
)

// Graph discovers the tree of linked SVG files below input without
// running the normalizer. It applies the same depth bound and cycle rule
// as Flatten, so the tree shows what a conversion would expand.
func (f *Flattener) Graph(ctx context.Context, input string) (*domain.RefNode, error) {
	abs, err := inputPath(input)
	if err != nil {
		return nil, err
	}
	root := &domain.RefNode{Path: abs, Status: domain.LinkOK}
	f.discover(ctx, root, map[string]bool{abs: true})
	return root, ctx.Err()
}

func (f *Flattener) discover(ctx context.Context, node *domain.RefNode, stack map[string]bool) {
	if ctx.Err() != nil {
		return
	}
	doc, err := svgdoc.Load(node.Path)
	if err != nil {
		node.Status = domain.LinkUnreadable
		node.Error = err.Error()
		return
	}

	dir := filepath.Dir(node.Path)
	for _, img := range svgdoc.Images(doc.Root()) {
		href, _ := svgdoc.Href(img)
		if !resolve.IsInlineCandidate(href) {
			continue
		}
		child := &domain.RefNode{Href: href, Depth: node.Depth + 1, Status: domain.LinkOK}
		node.Children = append(node.Children, child)

		path, err := resolve.PathFromHref(href, dir)
		if err == nil {
			path, err = filepath.Abs(path)
		}
		child.Path = path

		switch {
		case node.Depth > f.maxDepth:
			child.Status = domain.LinkTooDeep
		case err != nil || !svgdoc.Exists(path):
			child.Status = domain.LinkMissing
		case f.detectCycles && stack[path]:
			child.Status = domain.LinkCycle
		default:
			stack[path] = true
			f.discover(ctx, child, stack)
			delete(stack, path)
		}
	}
}
