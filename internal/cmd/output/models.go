package output

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/catalogsync"
	"github.com/agentstation/catalogsync/internal/auth/adc"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/monitoring"
)

// Write formats data for w. Table formats render the Data built by table;
// every other format encodes data as is.
func Write(w io.Writer, format string, data any, table func() Data) error {
	f := Format(strings.ToLower(format))
	formatter := NewFormatter(f)
	switch f {
	case FormatTable, FormatWide, "":
		if table != nil {
			return formatter.Format(w, table())
		}
	}
	return formatter.Format(w, data)
}

// SearchResultsToTableData converts relative resource names to a one column table.
func SearchResultsToTableData(names []string) Data {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	return Data{
		Headers: []string{"Relative Resource Name"},
		Rows:    rows,
	}
}

// TagFieldValuesToTableData lists tag field values, one per row.
func TagFieldValuesToTableData(field string, values []any) Data {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		cell := fmt.Sprint(v)
		if t, ok := v.(time.Time); ok {
			cell = t.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []string{cell})
	}
	return Data{
		Headers: []string{field},
		Rows:    rows,
	}
}

// SyncResultToTableData converts a sync result to a key-value table.
func SyncResultToTableData(result *catalogsync.Result) Data {
	rows := [][]string{
		{"Entry Group", result.EntryGroup},
		{"Entries", strconv.Itoa(result.EntriesSeen)},
	}
	if in := result.Ingest; in != nil {
		rows = append(rows,
			[]string{"Processed", strconv.Itoa(in.EntriesProcessed)},
			[]string{"Failed", strconv.Itoa(in.EntriesFailed)},
			[]string{"Skipped", strconv.Itoa(in.EntriesSkipped)},
			[]string{"Tags Failed", strconv.Itoa(in.TagsFailed)},
		)
	}
	rows = append(rows,
		[]string{"Cleaned Up", strconv.FormatBool(result.CleanedUp)},
		[]string{"Elapsed", result.Elapsed.Round(time.Millisecond).String()},
	)
	if result.TaskID != "" {
		rows = append(rows, []string{"Task ID", result.TaskID})
	}
	return Data{
		Headers:         []string{"Property", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// TagTemplateToTableData lists the fields of a tag template in display order.
func TagTemplateToTableData(template *datacatalog.TagTemplate, wide bool) Data {
	ids := make([]string, 0, len(template.Fields))
	for id := range template.Fields {
		ids = append(ids, id)
	}
	// Higher order first, like the console.
	sort.Slice(ids, func(i, j int) bool {
		a, b := template.Fields[ids[i]], template.Fields[ids[j]]
		if a.Order != b.Order {
			return a.Order > b.Order
		}
		return ids[i] < ids[j]
	})

	headers := []string{"Field", "Display Name", "Type", "Required"}
	if wide {
		headers = append(headers, "Order")
	}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		field := template.Fields[id]
		row := []string{id, field.DisplayName, fieldTypeString(field.Type), requiredMark(field.IsRequired)}
		if wide {
			row = append(row, strconv.FormatInt(field.Order, 10))
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows}
}

func fieldTypeString(t datacatalog.FieldType) string {
	if t.IsEnum() {
		return "ENUM(" + strings.Join(t.Enum.AllowedValues, "|") + ")"
	}
	return string(t.Primitive)
}

func requiredMark(required bool) string {
	if required {
		return "yes"
	}
	return "-"
}

// TimeSeriesToTableData flattens series into one row per point.
func TimeSeriesToTableData(series []*monitoring.TimeSeries) Data {
	var rows [][]string
	for _, ts := range series {
		task := ts.ResourceLabels["task_id"]
		if task == "" {
			task = "-"
		}
		for _, p := range ts.Points {
			rows = append(rows, []string{
				ts.MetricType,
				task,
				p.EndTime.UTC().Format(time.RFC3339),
				strconv.FormatFloat(p.Value, 'f', -1, 64),
			})
		}
	}
	return Data{
		Headers:         []string{"Metric", "Task", "End Time", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight},
	}
}

// AuthDetailsToTableData renders credential detection details.
func AuthDetailsToTableData(details *adc.Details) Data {
	rows := [][]string{
		{"State", details.State.String()},
	}
	add := func(key, value string) {
		if value != "" {
			rows = append(rows, []string{key, value})
		}
	}
	add("Type", details.Type)
	add("Account", details.Account)
	if details.Project != "" {
		add("Project", fmt.Sprintf("%s (%s)", details.Project, details.ProjectSource))
	}
	add("Location", fmt.Sprintf("%s (%s)", details.Location, details.LocationSource))
	add("Universe Domain", details.UniverseDomain)
	add("Credentials File", details.ADCPath)
	if !details.LastAuth.IsZero() {
		add("Last Auth", details.LastAuth.Format(time.RFC3339))
	}
	add("Error", details.ErrorMessage)
	return Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}
