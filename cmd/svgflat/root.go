package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/svgflat/internal/cli"
	"github.com/aretw0/svgflat/internal/config"
	"github.com/aretw0/svgflat/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "svgflat <input_svg> <output_pdf>",
	Short: "Flatten linked SVG files into one document and export it to PDF",
	Long: `svgflat expands every <image> that links another SVG file into the linking
document, recursively, and renders the result to PDF with Inkscape.

Running svgflat with two arguments is the same as 'svgflat convert'.`,
	Args:          cobra.RangeArgs(0, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		if len(args) != 2 {
			return fmt.Errorf("expected <input_svg> <output_pdf>, got %d argument(s)", len(args))
		}
		return runConvert(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, domain.ErrInputNotFound):
			fmt.Fprintln(os.Stderr, "Error: input SVG not found")
		case cli.IsInterrupted(err):
			fmt.Fprintln(os.Stderr, "Interrupted.")
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	registerGlobalFlags(rootCmd.PersistentFlags())
	addConvertFlags(rootCmd)
}

func registerGlobalFlags(pf *pflag.FlagSet) {
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("config", "", "Configuration file (default: ./"+config.DefaultFile+" when present)")
	pf.Int("max-depth", 0, "Maximum nesting depth of linked SVG files (default 10)")
	pf.Bool("allow-cycles", false, "Follow links back to files already being expanded (bounded by --max-depth)")
	pf.String("cache", "", "Normalization cache backend: none, memory, file or redis")
	pf.String("cache-dir", "", "Directory of the file cache")
	pf.String("redis-addr", "", "Redis address for the redis cache backend")
	pf.String("metrics-file", "", "Write Prometheus metrics to this textfile on exit")
	pf.String("log-format", "", "Log format: text or json")
}

// loadConfig reads the configuration file and environment, then applies
// the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	required := flags.Changed("config")
	if path == "" {
		path = config.DefaultFile
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("max-depth") {
		cfg.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("allow-cycles") {
		cfg.AllowCycles, _ = flags.GetBool("allow-cycles")
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend, _ = flags.GetString("cache")
	}
	if flags.Changed("cache-dir") {
		cfg.Cache.Dir, _ = flags.GetString("cache-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.Cache.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile, _ = flags.GetString("metrics-file")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Lookup("keep-temp") != nil && flags.Changed("keep-temp") {
		cfg.KeepTemp, _ = flags.GetBool("keep-temp")
	}
	if flags.Lookup("text-to-path") != nil && flags.Changed("text-to-path") {
		cfg.TextToPath, _ = flags.GetBool("text-to-path")
	}
	return cfg, cfg.Validate()
}

// newStack loads the configuration and builds the conversion stack.
// The caller closes the stack.
func newStack(cmd *cobra.Command) (*cli.Stack, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, err := cli.NewLogger(verbose, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewStack(cfg, logger)
}

func closeStack(s *cli.Stack) {
	if err := s.Close(); err != nil {
		s.Logger.Warn("Cleanup failed", "err", err)
	}
}

func signalContext() *cli.SignalContext {
	return cli.NewSignalContext(context.Background())
}
