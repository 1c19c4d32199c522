package domain

// LinkStatus classifies a node of the reference graph.
type LinkStatus string

const (
	LinkOK         LinkStatus = "ok"
	LinkMissing    LinkStatus = "missing"
	LinkCycle      LinkStatus = "cycle"
	LinkTooDeep    LinkStatus = "too_deep"
	LinkUnreadable LinkStatus = "unreadable"
)

// RefNode is one document in the tree of linked SVG files.
// The same file may appear under several parents.
type RefNode struct {
	Href     string     `json:"href,omitempty"`
	Path     string     `json:"path"`
	Depth    int        `json:"depth"`
	Status   LinkStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	Children []*RefNode `json:"children,omitempty"`
}

// Walk visits every edge depth-first, parents before children.
func (n *RefNode) Walk(fn func(parent, child *RefNode)) {
	for _, c := range n.Children {
		fn(n, c)
		c.Walk(fn)
	}
}

// Files returns the distinct existing files of the tree, root first.
func (n *RefNode) Files() []string {
	seen := map[string]bool{n.Path: true}
	files := []string{n.Path}
	n.Walk(func(_, c *RefNode) {
		if c.Path == "" || c.Status == LinkMissing || seen[c.Path] {
			return
		}
		seen[c.Path] = true
		files = append(files, c.Path)
	})
	return files
}
