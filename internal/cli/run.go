package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/presentation/graph"
	"github.com/aretw0/svgflat/internal/presentation/tui"
	"github.com/aretw0/svgflat/pkg/domain"
)

// ConvertOptions contains the per-invocation settings of the convert command.
type ConvertOptions struct {
	Input      string
	Output     string
	KeepTemp   bool
	TextToPath bool
	Watch      bool
	// Quiet suppresses the summary table.
	Quiet bool
}

// Convert runs one conversion, or keeps re-running it on changes when
// opts.Watch is set.
func Convert(ctx context.Context, s *Stack, opts ConvertOptions, out io.Writer) error {
	run := func(ctx context.Context) error {
		return convertOnce(ctx, s, opts, out)
	}
	if opts.Watch {
		return Watch(ctx, s, opts.Input, out, run)
	}
	return run(ctx)
}

func convertOnce(ctx context.Context, s *Stack, opts ConvertOptions, out io.Writer) error {
	start := time.Now()
	report, err := s.Flattener.Convert(ctx, opts.Input, opts.Output, svgflat.ConvertOptions{
		KeepTemp:   opts.KeepTemp,
		TextToPath: opts.TextToPath,
	})
	s.Metrics.ObserveConversion("convert", err, time.Since(start))
	if err != nil {
		return err
	}
	s.Logger.Info("PDF created", "output", opts.Output, "duration", time.Since(start))
	return printReport(out, report, opts.Quiet)
}

// Flatten writes the flattened SVG of input to output (or next to input).
func Flatten(ctx context.Context, s *Stack, input, output string, out io.Writer) error {
	start := time.Now()
	report, err := s.Flattener.FlattenTo(ctx, input, output)
	s.Metrics.ObserveConversion("flatten", err, time.Since(start))
	if err != nil {
		return err
	}
	printSystemMessage(out, "Flattened SVG written to %s", report.Output)
	return printReport(out, report, false)
}

// Graph prints the reference tree of input as mermaid or json.
func Graph(ctx context.Context, s *Stack, input, format string, out io.Writer) error {
	root, err := s.Flattener.Graph(ctx, input)
	if err != nil {
		return err
	}
	switch format {
	case "", "mermaid":
		_, err = io.WriteString(out, graph.GenerateMermaid(root))
	case "json":
		var data []byte
		data, err = graph.GenerateJSON(root)
		if err == nil {
			_, err = fmt.Fprintf(out, "%s\n", data)
		}
	default:
		err = fmt.Errorf("unknown graph format %q (want mermaid or json)", format)
	}
	return err
}

func printReport(out io.Writer, report *domain.Report, quiet bool) error {
	if quiet || report == nil || len(report.Events) == 0 {
		return nil
	}
	f, _ := out.(*os.File)
	return tui.PrintSummary(out, f, report)
}
