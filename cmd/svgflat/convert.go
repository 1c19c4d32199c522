package main

import (
	"os"

	"github.com/aretw0/svgflat"
	"github.com/aretw0/svgflat/internal/cli"
	"github.com/aretw0/svgflat/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input_svg> <output_pdf>",
	Short: "Flatten an SVG tree and export it to PDF",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	addConvertFlags(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("keep-temp", false, "Keep the intermediate temp_inlined_<name> SVG")
	cmd.Flags().Bool("text-to-path", false, "Convert text to outlines in the PDF")
	cmd.Flags().BoolP("watch", "w", false, "Convert again whenever the input or a linked file changes")
}

func runConvert(cmd *cobra.Command, args []string) error {
	stack, err := newStack(cmd)
	if err != nil {
		return err
	}
	defer closeStack(stack)

	if err := stack.Preflight(args[0]); err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if watch && tui.IsTerminal(os.Stdout) {
		tui.PrintBanner(os.Stdout, svgflat.Version)
	}

	ctx := signalContext()
	defer ctx.Cancel()

	return cli.Convert(ctx, stack, cli.ConvertOptions{
		Input:      args[0],
		Output:     args[1],
		KeepTemp:   stack.Config.KeepTemp,
		TextToPath: stack.Config.TextToPath,
		Watch:      watch,
	}, os.Stdout)
}
