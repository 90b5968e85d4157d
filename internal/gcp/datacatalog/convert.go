package datacatalog

import (
	"time"

	dc "google.golang.org/api/datacatalog/v1"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

func entryToAPI(e *datacatalog.Entry) *dc.GoogleCloudDatacatalogV1Entry {
	if e == nil {
		return nil
	}
	out := &dc.GoogleCloudDatacatalogV1Entry{
		Name:                e.Name,
		UserSpecifiedType:   e.UserSpecifiedType,
		UserSpecifiedSystem: e.UserSpecifiedSystem,
		DisplayName:         e.DisplayName,
		Description:         e.Description,
		LinkedResource:      e.LinkedResource,
	}
	if ts := e.SourceSystemTimestamps; ts != nil {
		out.SourceSystemTimestamps = &dc.GoogleCloudDatacatalogV1SystemTimestamps{
			CreateTime: formatTime(ts.CreateTime),
			UpdateTime: formatTime(ts.UpdateTime),
		}
	}
	if e.Schema != nil {
		out.Schema = &dc.GoogleCloudDatacatalogV1Schema{Columns: columnsToAPI(e.Schema.Columns)}
	}
	return out
}

func columnsToAPI(columns []*datacatalog.ColumnSchema) []*dc.GoogleCloudDatacatalogV1ColumnSchema {
	if len(columns) == 0 {
		return nil
	}
	out := make([]*dc.GoogleCloudDatacatalogV1ColumnSchema, 0, len(columns))
	for _, c := range columns {
		out = append(out, &dc.GoogleCloudDatacatalogV1ColumnSchema{
			Column:      c.Column,
			Type:        c.Type,
			Description: c.Description,
			Mode:        c.Mode,
			Subcolumns:  columnsToAPI(c.Subcolumns),
		})
	}
	return out
}

func entryFromAPI(e *dc.GoogleCloudDatacatalogV1Entry) *datacatalog.Entry {
	if e == nil {
		return nil
	}
	out := &datacatalog.Entry{
		Name:                e.Name,
		UserSpecifiedType:   e.UserSpecifiedType,
		UserSpecifiedSystem: e.UserSpecifiedSystem,
		DisplayName:         e.DisplayName,
		Description:         e.Description,
		LinkedResource:      e.LinkedResource,
	}
	if ts := e.SourceSystemTimestamps; ts != nil {
		out.SourceSystemTimestamps = &datacatalog.SystemTimestamps{
			CreateTime: parseTime(ts.CreateTime),
			UpdateTime: parseTime(ts.UpdateTime),
		}
	}
	if e.Schema != nil {
		out.Schema = &datacatalog.Schema{Columns: columnsFromAPI(e.Schema.Columns)}
	}
	return out
}

func columnsFromAPI(columns []*dc.GoogleCloudDatacatalogV1ColumnSchema) []*datacatalog.ColumnSchema {
	if len(columns) == 0 {
		return nil
	}
	out := make([]*datacatalog.ColumnSchema, 0, len(columns))
	for _, c := range columns {
		out = append(out, &datacatalog.ColumnSchema{
			Column:      c.Column,
			Type:        c.Type,
			Description: c.Description,
			Mode:        c.Mode,
			Subcolumns:  columnsFromAPI(c.Subcolumns),
		})
	}
	return out
}

func entryGroupToAPI(g *datacatalog.EntryGroup) *dc.GoogleCloudDatacatalogV1EntryGroup {
	if g == nil {
		return &dc.GoogleCloudDatacatalogV1EntryGroup{}
	}
	return &dc.GoogleCloudDatacatalogV1EntryGroup{
		Name:        g.Name,
		DisplayName: g.DisplayName,
		Description: g.Description,
	}
}

func entryGroupFromAPI(g *dc.GoogleCloudDatacatalogV1EntryGroup) *datacatalog.EntryGroup {
	if g == nil {
		return nil
	}
	return &datacatalog.EntryGroup{
		Name:        g.Name,
		DisplayName: g.DisplayName,
		Description: g.Description,
	}
}

func tagToAPI(t *datacatalog.Tag) *dc.GoogleCloudDatacatalogV1Tag {
	out := &dc.GoogleCloudDatacatalogV1Tag{
		Name:     t.Name,
		Template: t.Template,
		Column:   t.Column,
		Fields:   make(map[string]dc.GoogleCloudDatacatalogV1TagField, len(t.Fields)),
	}
	for id, f := range t.Fields {
		out.Fields[id] = tagFieldToAPI(f)
	}
	return out
}

func tagFieldToAPI(f datacatalog.TagField) dc.GoogleCloudDatacatalogV1TagField {
	var out dc.GoogleCloudDatacatalogV1TagField
	switch f.Kind {
	case datacatalog.FieldKindBool:
		out.BoolValue = f.BoolValue
		out.ForceSendFields = []string{"BoolValue"}
	case datacatalog.FieldKindDouble:
		out.DoubleValue = f.DoubleValue
		out.ForceSendFields = []string{"DoubleValue"}
	case datacatalog.FieldKindString:
		out.StringValue = f.StringValue
		out.ForceSendFields = []string{"StringValue"}
	case datacatalog.FieldKindRichText:
		out.RichtextValue = f.StringValue
		out.ForceSendFields = []string{"RichtextValue"}
	case datacatalog.FieldKindTimestamp:
		out.TimestampValue = formatTime(f.TimestampValue)
	case datacatalog.FieldKindEnum:
		out.EnumValue = &dc.GoogleCloudDatacatalogV1TagFieldEnumValue{DisplayName: f.EnumValue}
	}
	return out
}

func tagFromAPI(t *dc.GoogleCloudDatacatalogV1Tag) *datacatalog.Tag {
	if t == nil {
		return nil
	}
	out := &datacatalog.Tag{
		Name:     t.Name,
		Template: t.Template,
		Column:   t.Column,
		Fields:   make(map[string]datacatalog.TagField, len(t.Fields)),
	}
	for id, f := range t.Fields {
		out.Fields[id] = tagFieldFromAPI(f)
	}
	return out
}

// tagFieldFromAPI infers the kind from the populated value. Zero bools and
// doubles are indistinguishable on the wire and decode as an unset field with
// zero values.
func tagFieldFromAPI(f dc.GoogleCloudDatacatalogV1TagField) datacatalog.TagField {
	switch {
	case f.EnumValue != nil:
		return datacatalog.EnumField(f.EnumValue.DisplayName)
	case f.TimestampValue != "":
		return datacatalog.TimestampField(parseTime(f.TimestampValue))
	case f.RichtextValue != "":
		return datacatalog.RichTextField(f.RichtextValue)
	case f.StringValue != "":
		return datacatalog.StringField(f.StringValue)
	case f.BoolValue:
		return datacatalog.BoolField(true)
	case f.DoubleValue != 0:
		return datacatalog.DoubleField(f.DoubleValue)
	}
	return datacatalog.TagField{}
}

func tagTemplateToAPI(t *datacatalog.TagTemplate) *dc.GoogleCloudDatacatalogV1TagTemplate {
	out := &dc.GoogleCloudDatacatalogV1TagTemplate{
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Fields:      make(map[string]dc.GoogleCloudDatacatalogV1TagTemplateField, len(t.Fields)),
	}
	for id, f := range t.Fields {
		field := dc.GoogleCloudDatacatalogV1TagTemplateField{
			DisplayName: f.DisplayName,
			IsRequired:  f.IsRequired,
			Order:       f.Order,
			Type:        &dc.GoogleCloudDatacatalogV1FieldType{},
		}
		if f.Type.IsEnum() {
			enum := &dc.GoogleCloudDatacatalogV1FieldTypeEnumType{}
			for _, v := range f.Type.Enum.AllowedValues {
				enum.AllowedValues = append(enum.AllowedValues,
					&dc.GoogleCloudDatacatalogV1FieldTypeEnumTypeEnumValue{DisplayName: v})
			}
			field.Type.EnumType = enum
		} else {
			field.Type.PrimitiveType = string(f.Type.Primitive)
		}
		out.Fields[id] = field
	}
	return out
}

func tagTemplateFromAPI(t *dc.GoogleCloudDatacatalogV1TagTemplate) *datacatalog.TagTemplate {
	if t == nil {
		return nil
	}
	out := &datacatalog.TagTemplate{
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Fields:      make(map[string]datacatalog.TagTemplateField, len(t.Fields)),
	}
	for id, f := range t.Fields {
		field := datacatalog.TagTemplateField{
			DisplayName: f.DisplayName,
			IsRequired:  f.IsRequired,
			Order:       f.Order,
		}
		if f.Type != nil {
			if f.Type.EnumType != nil {
				enum := &datacatalog.EnumType{}
				for _, v := range f.Type.EnumType.AllowedValues {
					enum.AllowedValues = append(enum.AllowedValues, v.DisplayName)
				}
				field.Type.Enum = enum
			} else {
				field.Type.Primitive = datacatalog.PrimitiveType(f.Type.PrimitiveType)
			}
		}
		out.Fields[id] = field
	}
	return out
}

func searchResultFromAPI(r *dc.GoogleCloudDatacatalogV1SearchCatalogResult) *datacatalog.SearchResult {
	return &datacatalog.SearchResult{
		RelativeResourceName: r.RelativeResourceName,
		LinkedResource:       r.LinkedResource,
		SearchResultType:     r.SearchResultType,
		SearchResultSubtype:  r.SearchResultSubtype,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
