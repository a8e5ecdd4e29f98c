package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format selects how command results are rendered
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, yaml or table)", s)
	}
}

// IsStructured reports whether the format is machine readable
func (f Format) IsStructured() bool {
	return f == FormatJSON || f == FormatYAML
}

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	bold   = color.New(color.Bold)
)

// SetColor turns ANSI colouring on or off for every printer
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Printer writes user-facing output. Status messages are suppressed for
// structured formats so stdout stays parseable.
type Printer struct {
	Out    io.Writer
	Err    io.Writer
	Format Format
}

// NewPrinter returns a printer writing to stdout and stderr
func NewPrinter(format Format) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Format: format}
}

// Success prints a success message with checkmark
func (p *Printer) Success(format string, args ...any) {
	p.status(green, "✓", format, args...)
}

// Info prints an info message
func (p *Printer) Info(format string, args ...any) {
	p.status(cyan, "ℹ", format, args...)
}

// Warning prints a warning message to stderr
func (p *Printer) Warning(format string, args ...any) {
	yellow.Fprint(p.Err, "⚠ ")
	fmt.Fprintf(p.Err, format+"\n", args...)
}

// Error prints an error message to stderr
func (p *Printer) Error(err error) {
	red.Fprint(p.Err, "✗ ")
	fmt.Fprintln(p.Err, err)
}

// Println writes a plain line to stdout
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.Out, a...)
}

func (p *Printer) status(c *color.Color, mark, format string, args ...any) {
	if p.Format.IsStructured() {
		return
	}
	c.Fprint(p.Out, mark+" ")
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// encode writes v as JSON or YAML. It returns false for non-structured formats.
func (p *Printer) encode(v any) (bool, error) {
	switch p.Format {
	case FormatJSON:
		encoder := json.NewEncoder(p.Out)
		encoder.SetIndent("", "  ")
		return true, encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(p.Out)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return true, err
		}
		return true, encoder.Close()
	}
	return false, nil
}
