package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/EWPStanislavKhodorov/BO4E-python/config"
)

var (
	green = color.New(color.FgGreen)
	bold  = color.New(color.Bold)
)

// writer renders command results in the configured output format.
type writer struct {
	format string
	out    io.Writer
}

func (a *app) writer() *writer {
	format := config.OutputText
	if a.cfg != nil {
		format = a.cfg.Output
	}
	return &writer{format: format, out: a.stdout}
}

// write serializes value for the json and yaml formats and calls text for
// the text format.
func (w *writer) write(value any, text func(io.Writer)) error {
	switch w.format {
	case config.OutputJSON:
		encoder := json.NewEncoder(w.out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
	case config.OutputYAML:
		encoder := yaml.NewEncoder(w.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
	default:
		text(w.out)
	}
	return nil
}
