package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/svgflat/pkg/domain"
)

var outcomeOrder = []domain.Outcome{
	domain.OutcomeInlined,
	domain.OutcomeSkipped,
	domain.OutcomeFailed,
	domain.OutcomeCycle,
	domain.OutcomeTooDeep,
	domain.OutcomeCanceled,
}

// SummaryMarkdown describes a run as a markdown document.
func SummaryMarkdown(r *domain.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", filepath.Base(r.Input))
	if r.Output != "" {
		fmt.Fprintf(&sb, "Output: `%s`\n\n", r.Output)
	}

	counts := r.Counts()
	var parts []string
	for _, o := range outcomeOrder {
		if n := counts[o]; n > 0 {
			parts = append(parts, fmt.Sprintf("**%d** %s", n, o))
		}
	}
	if len(parts) == 0 {
		sb.WriteString("No linked SVG references.\n")
		return sb.String()
	}
	sb.WriteString(strings.Join(parts, ", ") + "\n\n")

	sb.WriteString("| depth | reference | outcome | detail |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range r.Events {
		detail := e.Transform
		if e.Error != "" {
			detail = firstLine(e.Error)
		}
		name := e.Reference.Href
		if e.Reference.Path != "" {
			name = filepath.Base(e.Reference.Path)
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n",
			e.Reference.Depth, escapeCell(name), e.Outcome, escapeCell(detail))
	}
	return sb.String()
}

// PrintSummary writes the run summary to w, styled with glamour when out
// is a terminal and as plain markdown otherwise.
func PrintSummary(w io.Writer, out *os.File, r *domain.Report) error {
	md := SummaryMarkdown(r)
	if out != nil && IsTerminal(out) {
		rendered, err := NewRenderer(Width(out, 100))(md)
		if err == nil {
			md = rendered
		}
	}
	_, err := io.WriteString(w, md)
	return err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
