// Package cli provides output helpers shared by the checkpoint commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/checkpoint/internal/errors"
	"github.com/thoreinstein/checkpoint/internal/logging"
)

// ErrUnknownFormat is returned when an output format name is not recognized.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names a structured output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// ParseFormat converts a flag value to a Format. Matching ignores case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q (valid: yaml, json, toml)", s)
	}
}

// Encode writes v to w in the given format. TOML requires v to encode as a
// table, so slices must be wrapped by the caller.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding json")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding toml")
	default:
		return errors.Wrapf(ErrUnknownFormat, "%q", f)
	}
}

// Printer writes status lines, colored when the writer is a color terminal.
type Printer struct {
	w       io.Writer
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	muted   *color.Color
	bold    *color.Color
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer) *Printer {
	p := &Printer{
		w:       w,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		muted:   color.New(color.FgHiBlack),
		bold:    color.New(color.Bold),
	}
	if !logging.SupportsColor(w) {
		for _, c := range []*color.Color{p.success, p.warn, p.fail, p.muted, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.w }

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Sprint("✓ ")+fmt.Sprintf(format, args...))
}

// Warn prints a line prefixed with an exclamation mark.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.w, p.warn.Sprint("! ")+fmt.Sprintf(format, args...))
}

// Error prints a line prefixed with a cross.
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.fail.Sprint("✗ ")+fmt.Sprintf(format, args...))
}

// Muted prints a dimmed line.
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.w, p.muted.Sprintf(format, args...))
}

// Bold formats s in bold.
func (p *Printer) Bold(s string) string {
	return p.bold.Sprint(s)
}
