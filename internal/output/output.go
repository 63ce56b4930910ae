// Package output renders command results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DefaultFormat is used when the requested format is unknown.
var DefaultFormat = FormatYAML

// current is set by the root command's --output flag.
var current = FormatYAML

// ParseFormat maps a flag value to a format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml", "":
		return FormatYAML, nil
	default:
		return DefaultFormat, fmt.Errorf("unknown output format: %s", s)
	}
}

// SetFormat sets the global output format. Unknown values fall back to
// DefaultFormat.
func SetFormat(s string) {
	f, err := ParseFormat(s)
	if err != nil {
		f = DefaultFormat
	}
	current = f
}

// CurrentFormat returns the global output format.
func CurrentFormat() Format {
	return current
}

// Print writes data to stdout in the configured format.
func Print(data any) error {
	return To(os.Stdout, current, data)
}

// To writes data to w in the given format.
func To(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
