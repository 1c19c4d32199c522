package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/svgflat/internal/presentation/tui"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryMarkdown(t *testing.T) {
	r := domain.NewReport("/work/poster.svg")
	r.Output = "/work/poster.pdf"
	r.Record(domain.ReferenceEvent{
		Reference: domain.Reference{Href: "file:///work/child.svg", Path: "/work/child.svg"},
		Outcome:   domain.OutcomeInlined,
		Transform: "translate(10,20) scale(0.25,0.25) translate(0,0)",
	})
	r.Record(domain.ReferenceEvent{
		Reference: domain.Reference{Href: "gone.svg", Depth: 1},
		Outcome:   domain.OutcomeSkipped,
		Error:     "file not found: /work/gone.svg\nmore",
	})

	md := tui.SummaryMarkdown(r)
	assert.Contains(t, md, "# poster.svg")
	assert.Contains(t, md, "**1** inlined, **1** skipped")
	assert.Contains(t, md, "| 0 | child.svg | inlined | translate(10,20) scale(0.25,0.25) translate(0,0) |")
	assert.Contains(t, md, "| 1 | gone.svg | skipped | file not found: /work/gone.svg |")
	assert.NotContains(t, md, "more")
}

func TestSummaryMarkdown_Empty(t *testing.T) {
	md := tui.SummaryMarkdown(domain.NewReport("a.svg"))
	assert.Contains(t, md, "No linked SVG references.")
}

func TestPrintSummary_PlainWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tui.PrintSummary(&buf, nil, domain.NewReport("a.svg")))
	assert.Equal(t, tui.SummaryMarkdown(domain.NewReport("a.svg")), buf.String())
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.0.0")
	assert.Contains(t, buf.String(), "v1.0.0")
}
