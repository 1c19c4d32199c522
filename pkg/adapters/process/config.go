package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholders substituted in command arguments.
const (
	InputPlaceholder  = "{input}"
	OutputPlaceholder = "{output}"
)

// CommandConfig describes how an external tool is invoked.
// Args may contain {input} and {output} anywhere inside an argument.
type CommandConfig struct {
	Command        string            `yaml:"command" json:"command" mapstructure:"command"`
	Args           []string          `yaml:"args" json:"args" mapstructure:"args"`
	TextToPathArgs []string          `yaml:"text_to_path_args,omitempty" json:"text_to_path_args,omitempty" mapstructure:"text_to_path_args"`
	Environment    map[string]string `yaml:"env,omitempty" json:"env,omitempty" mapstructure:"env"`
}

// DefaultNormalizeCommand converts any SVG to plain SVG with Inkscape.
func DefaultNormalizeCommand() CommandConfig {
	return CommandConfig{
		Command: "inkscape",
		Args: []string{
			InputPlaceholder,
			"--export-plain-svg",
			"--export-filename=" + OutputPlaceholder,
			"--vacuum-defs",
		},
	}
}

// DefaultExportCommand renders SVG to PDF with Inkscape.
func DefaultExportCommand() CommandConfig {
	return CommandConfig{
		Command: "inkscape",
		Args: []string{
			InputPlaceholder,
			"--export-type=pdf",
			"--export-filename=" + OutputPlaceholder,
		},
		TextToPathArgs: []string{"--export-text-to-path"},
	}
}

// WithDefaults fills an empty command from def.
func (c CommandConfig) WithDefaults(def CommandConfig) CommandConfig {
	if c.Command == "" {
		return def
	}
	return c
}

// Expand returns the argument list with placeholders replaced.
func (c CommandConfig) Expand(input, output string, extra ...string) []string {
	r := strings.NewReplacer(InputPlaceholder, input, OutputPlaceholder, output)
	args := make([]string, 0, len(c.Args)+len(extra))
	for _, a := range c.Args {
		args = append(args, r.Replace(a))
	}
	for _, a := range extra {
		args = append(args, r.Replace(a))
	}
	return args
}

// ToolsFile is the on-disk form of a tool override file.
type ToolsFile struct {
	Normalizer CommandConfig `yaml:"normalizer" json:"normalizer"`
	Exporter   CommandConfig `yaml:"exporter" json:"exporter"`
}

// LoadTools reads tool overrides from a YAML or JSON file. A missing file
// yields the defaults.
func LoadTools(path string) (ToolsFile, error) {
	out := ToolsFile{Normalizer: DefaultNormalizeCommand(), Exporter: DefaultExportCommand()}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("failed to read tools config: %w", err)
	}

	var cfg ToolsFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return out, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	out.Normalizer = cfg.Normalizer.WithDefaults(out.Normalizer)
	out.Exporter = cfg.Exporter.WithDefaults(out.Exporter)
	return out, nil
}
