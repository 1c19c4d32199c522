package main

import (
	"os"

	"github.com/aretw0/svgflat/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <input_svg>",
	Short: "Print the tree of linked SVG files",
	Long: `Reads the input and every SVG it links to, without running the normalizer,
and prints the reference tree as a Mermaid diagram (graph TD) or as JSON.
Missing files, cycles and links beyond --max-depth are marked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack(cmd)
		if err != nil {
			return err
		}
		defer closeStack(stack)

		format, _ := cmd.Flags().GetString("format")
		ctx := signalContext()
		defer ctx.Cancel()
		return cli.Graph(ctx, stack, args[0], format, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid or json")
}
