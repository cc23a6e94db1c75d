package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output format selected with --output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat accepts a format name; "" means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, json, yaml)", s)
	}
}

// Formatter writes command results in one output format.
type Formatter interface {
	Format(data any) error
}

// TextRenderer is implemented by results with a human-readable form. JSON
// and YAML output encode the same value through its struct tags.
type TextRenderer interface {
	RenderText(w io.Writer, styles Styles) error
}

// FormatterOptions configures NewFormatter.
type FormatterOptions struct {
	Writer  io.Writer // defaults to os.Stdout
	NoColor bool
	Compact bool // no indentation in JSON and YAML
}

// NewFormatter returns the formatter for format.
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	o := FormatterOptions{Writer: os.Stdout}
	if opts != nil {
		o = *opts
		if o.Writer == nil {
			o.Writer = os.Stdout
		}
	}

	switch f {
	case FormatJSON:
		return jsonFormatter(o), nil
	case FormatYAML:
		return yamlFormatter(o), nil
	default:
		return textFormatter{w: o.Writer, styles: NewStyles(o.NoColor)}, nil
	}
}

type jsonFormatter FormatterOptions

func (f jsonFormatter) Format(data any) error {
	enc := json.NewEncoder(f.Writer)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}

type yamlFormatter FormatterOptions

func (f yamlFormatter) Format(data any) error {
	enc := yaml.NewEncoder(f.Writer)
	if f.Compact {
		enc.SetIndent(1)
	} else {
		enc.SetIndent(2)
	}
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

type textFormatter struct {
	w      io.Writer
	styles Styles
}

func (f textFormatter) Format(data any) error {
	switch v := data.(type) {
	case TextRenderer:
		return v.RenderText(f.w, f.styles)
	case string:
		_, err := fmt.Fprintln(f.w, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(f.w, v.String())
		return err
	default:
		return fmt.Errorf("text output is not available for %T, use --output json", data)
	}
}

// Printer writes lines and keeps the first write error, so renderers can
// print several lines and check once.
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter wraps w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Println writes a line unless an earlier write failed.
func (p *Printer) Println(a ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintln(p.w, a...)
	}
}

// Printf writes formatted text unless an earlier write failed.
func (p *Printer) Printf(format string, a ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, a...)
	}
}

// Err returns the first write error.
func (p *Printer) Err() error {
	return p.err
}

// Table is a column-aligned plain text table.
type Table struct {
	header []string
	rows   [][]string
}

// NewTable starts a table with the given column headers.
func NewTable(header ...string) *Table {
	return &Table{header: header}
}

// Row appends a row. Empty cells are shown as "-".
func (t *Table) Row(cells ...any) {
	row := make([]string, len(cells))
	for i, c := range cells {
		s := fmt.Sprint(c)
		if s == "" {
			s = "-"
		}
		row[i] = s
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	p := NewPrinter(tw)
	p.Println(strings.Join(t.header, "\t"))
	for _, row := range t.rows {
		p.Println(strings.Join(row, "\t"))
	}
	if err := p.Err(); err != nil {
		return err
	}
	return tw.Flush()
}
