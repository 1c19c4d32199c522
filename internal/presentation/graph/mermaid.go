package graph

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/aretw0/svgflat/pkg/domain"
)

// GenerateMermaid renders a reference tree as a Mermaid flowchart.
// Labels are paths relative to the root document's directory. Shapes:
// - Root: ((Circle))
// - Linked file: [Rectangle]
// - Missing or unreadable: [/Parallelogram/]
// Edges that a conversion would not follow are dotted and labelled.
func GenerateMermaid(root *domain.RefNode) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	base := filepath.Dir(root.Path)
	label := func(n *domain.RefNode) string {
		if n.Path == "" {
			return n.Href
		}
		if rel, err := filepath.Rel(base, n.Path); err == nil {
			return filepath.ToSlash(rel)
		}
		return n.Path
	}

	declared := map[string]bool{}
	declare := func(n *domain.RefNode, isRoot bool) string {
		id := sanitizeMermaidID(label(n))
		if declared[id] {
			return id
		}
		declared[id] = true

		opener, closer := "[", "]"
		switch {
		case isRoot:
			opener, closer = "((", "))"
		case n.Status == domain.LinkMissing || n.Status == domain.LinkUnreadable:
			opener, closer = "[/", "/]"
		}
		safeLabel := strings.ReplaceAll(label(n), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, safeLabel, closer))
		return id
	}

	declare(root, true)
	styled := map[domain.LinkStatus][]string{}
	root.Walk(func(parent, child *domain.RefNode) {
		from := sanitizeMermaidID(label(parent))
		to := declare(child, false)

		arrow := "-->"
		if child.Status != domain.LinkOK {
			arrow = fmt.Sprintf("-. \"%s\" .->", child.Status)
			styled[child.Status] = append(styled[child.Status], to)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
	})

	if len(styled) > 0 {
		sb.WriteString("\n    %% Status Styles\n")
		// Force black text for contrast on both light and dark themes.
		sb.WriteString("    classDef missing fill:#ffcdd2,stroke:#b71c1c,color:#000;\n")
		sb.WriteString("    classDef unreadable fill:#ffcdd2,stroke:#b71c1c,color:#000;\n")
		sb.WriteString("    classDef cycle fill:#fff9c4,stroke:#f57f17,color:#000;\n")
		sb.WriteString("    classDef too_deep fill:#e1f5fe,stroke:#01579b,color:#000;\n")
		for _, status := range []domain.LinkStatus{domain.LinkMissing, domain.LinkUnreadable, domain.LinkCycle, domain.LinkTooDeep} {
			seen := map[string]bool{}
			for _, id := range styled[status] {
				if !seen[id] {
					seen[id] = true
					sb.WriteString(fmt.Sprintf("    class %s %s;\n", id, status))
				}
			}
		}
	}

	return sb.String()
}

// GenerateJSON renders a reference tree as indented JSON.
func GenerateJSON(root *domain.RefNode) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

func sanitizeMermaidID(id string) string {
	s := strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, id)
	if s == "" || unicode.IsDigit(rune(s[0])) {
		s = "n_" + s
	}
	return s
}
