// Package formatting renders partnership configuration for operators.
//
// The same snapshot can be written as a rich table (go-pretty), as plain
// lines matching the command output, or as JSON or YAML for scripts. The
// view types are also the JSON shape of the admin API.
package formatting

import (
	"fmt"
	"io"
	"strings"

	"partnerplane/internal/partnership"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatPlain OutputFormat = "plain" // One name per line
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
	FormatTable OutputFormat = "table" // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
	Wide   bool // Do not truncate table cells
}

// Formatter writes snapshot contents to an output.
type Formatter interface {
	Partners(snap *partnership.Snapshot) error
	Partnerships(snap *partnership.Snapshot) error
}

// ParseFormat validates a format name from a flag.
func ParseFormat(name string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(name)); f {
	case FormatPlain, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q (use table, plain, json or yaml)", name)
}

// New creates the formatter for options.Format writing to w.
func New(options Options, w io.Writer) Formatter {
	switch options.Format {
	case FormatJSON:
		return &jsonFormatter{w: w}
	case FormatYAML:
		return &yamlFormatter{w: w}
	case FormatPlain:
		return &plainFormatter{w: w}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{w: w, color: options.Color, wide: options.Wide}
	}
}
