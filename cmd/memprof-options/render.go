package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/memory-profiler/internal/config"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func render(w io.Writer, opts *config.Options, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil
	case formatText:
		for _, s := range opts.Settings() {
			if _, err := fmt.Fprintf(w, "%-55s = %v\n", s.Name, s.Value); err != nil {
				return fmt.Errorf("write setting: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderVariables(w io.Writer) error {
	for _, name := range config.Variables() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return fmt.Errorf("write variable: %w", err)
		}
	}
	return nil
}
