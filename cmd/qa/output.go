package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("--output must be %s or %s, got %q", outputJSON, outputYAML, format)
	}
}

// printResult writes v as indented JSON or as YAML.
func printResult(w io.Writer, format string, v any) error {
	if format == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
