// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formats = []Format{FormatTable, FormatWide, FormatJSON, FormatYAML}

// Align is a table column alignment.
type Align int

// Column alignments. AlignDefault leaves the column to tablewriter.
const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

var twAligns = [...]tw.Align{
	AlignDefault: tw.Skip,
	AlignLeft:    tw.AlignLeft,
	AlignCenter:  tw.AlignCenter,
	AlignRight:   tw.AlignRight,
}

// Data is a rendered table: headers, rows and optional per column alignment.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats render tables.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{Wide: format == FormatWide}
	}
}

// ParseFormat validates s, case-insensitively. The empty string is allowed
// and means auto detection.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" || slices.Contains(formats, f) {
		return f, nil
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("invalid format %q: must be one of: %s", s, strings.Join(names, ", "))
}

// DetectFormat returns explicit when set. Otherwise it renders tables on a
// terminal and JSON when stdout is piped.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// JSONFormatter encodes data as JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter encodes data as YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// TableFormatter renders Data, or structs and struct slices through
// reflection. Anything else falls back to JSON.
type TableFormatter struct {
	Wide bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return render(w, v)
	case *Data:
		return render(w, *v)
	}
	if d, ok := tableFromValue(reflect.ValueOf(data)); ok {
		return render(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func render(w io.Writer, data Data) error {
	cfg := tablewriter.Config{}
	if len(data.ColumnAlignment) > 0 {
		aligns := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			aligns[i] = tw.Skip
			if a >= 0 && int(a) < len(twAligns) {
				aligns[i] = twAligns[a]
			}
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: aligns}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: aligns}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		table.Header(toAny(data.Headers)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(toAny(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func toAny(cells []string) []any {
	out := make([]any, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}

// tableFromValue lays out a struct slice as one row per element and a single
// struct as property/value rows. Unexported fields are skipped.
func tableFromValue(v reflect.Value) (Data, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Data{}, false
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Struct:
		fields := exportedFields(v.Type().Elem())
		d := Data{Headers: make([]string, len(fields))}
		for i, field := range fields {
			d.Headers[i] = columnName(field)
		}
		for i := 0; i < v.Len(); i++ {
			row := make([]string, len(fields))
			for j, field := range fields {
				row[j] = cellValue(v.Index(i).FieldByIndex(field.Index))
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true

	case v.Kind() == reflect.Struct:
		d := Data{Headers: []string{"Property", "Value"}}
		for _, field := range exportedFields(v.Type()) {
			d.Rows = append(d.Rows, []string{columnName(field), cellValue(v.FieldByIndex(field.Index))})
		}
		return d, true
	}
	return Data{}, false
}

func exportedFields(t reflect.Type) []reflect.StructField {
	var fields []reflect.StructField
	for i := 0; i < t.NumField(); i++ {
		if f := t.Field(i); f.IsExported() {
			fields = append(fields, f)
		}
	}
	return fields
}

// columnName titles the json tag name, e.g. "entry_id" becomes "Entry Id".
func columnName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func cellValue(v reflect.Value) string {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = v.Index(i).String()
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v.Interface())
}
