// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format is an output format accepted by -o
type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts table, json or yaml (case-insensitive, "" means table)
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Table, nil
	case Table, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("%w %q, must be one of: table, json, yaml", ErrUnknownFormat, s)
}

// Tabular is implemented by results that have a table form
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Render writes v to w in format f. Table output requires v to be
// Tabular or a fmt.Stringer.
func Render(w io.Writer, f Format, v any) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case Table, "":
		return renderTable(w, v)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

func renderTable(w io.Writer, v any) error {
	switch t := v.(type) {
	case Tabular:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		header := t.Header()
		fmt.Fprintln(tw, strings.Join(header, "\t"))
		fmt.Fprintln(tw, strings.Join(underline(header), "\t"))
		for _, row := range t.Rows() {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		return tw.Flush()
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, t.String())
		return err
	}
	return fmt.Errorf("%T has no table form, use -o json or -o yaml", v)
}

func underline(header []string) []string {
	lines := make([]string, len(header))
	for i, h := range header {
		lines[i] = strings.Repeat("─", len([]rune(h)))
	}
	return lines
}
