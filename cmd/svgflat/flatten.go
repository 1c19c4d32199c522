package main

import (
	"os"

	"github.com/aretw0/svgflat/internal/cli"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <input_svg> [output_svg]",
	Short: "Write the flattened SVG without exporting to PDF",
	Long: `Inlines every linked SVG file into the input document and writes the result
to output_svg, or to temp_inlined_<name> next to the input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer closeStack(stack)

		output := ""
		if len(args) == 2 {
			output = args[1]
		}

		ctx := signalContext()
		defer ctx.Cancel()
		return cli.Flatten(ctx, stack, args[0], output, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)
}
