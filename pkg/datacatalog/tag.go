package datacatalog

import (
	"fmt"
	"strings"
	"time"
)

// FieldKind identifies which value of a TagField is populated.
type FieldKind int

// Tag field kinds.
const (
	FieldKindUnset FieldKind = iota
	FieldKindBool
	FieldKindDouble
	FieldKindString
	FieldKindTimestamp
	FieldKindEnum
	FieldKindRichText
)

// String returns the kind name.
func (k FieldKind) String() string {
	switch k {
	case FieldKindBool:
		return "bool"
	case FieldKindDouble:
		return "double"
	case FieldKindString:
		return "string"
	case FieldKindTimestamp:
		return "timestamp"
	case FieldKindEnum:
		return "enum"
	case FieldKindRichText:
		return "richtext"
	default:
		return "unset"
	}
}

// Tag is a structured annotation attached to an entry, or to one of its columns.
type Tag struct {
	Name     string              `json:"name,omitempty" yaml:"name,omitempty"`     // Resource name, filled once matched or created
	Template string              `json:"template" yaml:"template"`                 // Tag template resource name
	Column   string              `json:"column,omitempty" yaml:"column,omitempty"` // Target column, empty for entry-level tags
	Fields   map[string]TagField `json:"fields,omitempty" yaml:"fields,omitempty"` // Field id to value
}

// TagField is a tagged union over the supported tag value kinds.
// Only the value matching Kind is meaningful.
type TagField struct {
	Kind           FieldKind `json:"-" yaml:"-"`
	BoolValue      bool      `json:"bool_value,omitempty" yaml:"-"`
	DoubleValue    float64   `json:"double_value,omitempty" yaml:"-"`
	StringValue    string    `json:"string_value,omitempty" yaml:"-"`
	TimestampValue time.Time `json:"timestamp_value,omitzero" yaml:"-"`
	EnumValue      string    `json:"enum_value,omitempty" yaml:"-"`
}

// BoolField returns a bool tag field.
func BoolField(v bool) TagField { return TagField{Kind: FieldKindBool, BoolValue: v} }

// DoubleField returns a double tag field.
func DoubleField(v float64) TagField { return TagField{Kind: FieldKindDouble, DoubleValue: v} }

// StringField returns a string tag field.
func StringField(v string) TagField { return TagField{Kind: FieldKindString, StringValue: v} }

// RichTextField returns a rich text tag field.
func RichTextField(v string) TagField { return TagField{Kind: FieldKindRichText, StringValue: v} }

// TimestampField returns a timestamp tag field. A zero time means "no value".
func TimestampField(v time.Time) TagField {
	return TagField{Kind: FieldKindTimestamp, TimestampValue: v}
}

// EnumField returns an enum tag field holding the display name of the value.
func EnumField(displayName string) TagField {
	return TagField{Kind: FieldKindEnum, EnumValue: displayName}
}

// Value returns the populated value as an untyped Go value.
func (f TagField) Value() any {
	switch f.Kind {
	case FieldKindBool:
		return f.BoolValue
	case FieldKindDouble:
		return f.DoubleValue
	case FieldKindString, FieldKindRichText:
		return f.StringValue
	case FieldKindTimestamp:
		if f.TimestampValue.IsZero() {
			return nil
		}
		return f.TimestampValue
	case FieldKindEnum:
		return f.EnumValue
	default:
		return nil
	}
}

// tagFieldYAML is the manifest representation of a TagField.
type tagFieldYAML struct {
	BoolValue      *bool      `yaml:"bool_value,omitempty"`
	DoubleValue    *float64   `yaml:"double_value,omitempty"`
	StringValue    *string    `yaml:"string_value,omitempty"`
	RichTextValue  *string    `yaml:"richtext_value,omitempty"`
	TimestampValue *time.Time `yaml:"timestamp_value,omitempty"`
	EnumValue      *string    `yaml:"enum_value,omitempty"`
}

// MarshalYAML renders the populated value under its kind key.
func (f TagField) MarshalYAML() (any, error) {
	out := tagFieldYAML{}
	switch f.Kind {
	case FieldKindBool:
		out.BoolValue = &f.BoolValue
	case FieldKindDouble:
		out.DoubleValue = &f.DoubleValue
	case FieldKindString:
		out.StringValue = &f.StringValue
	case FieldKindRichText:
		out.RichTextValue = &f.StringValue
	case FieldKindTimestamp:
		out.TimestampValue = &f.TimestampValue
	case FieldKindEnum:
		out.EnumValue = &f.EnumValue
	}
	return out, nil
}

// UnmarshalYAML reads exactly one of the kind keys.
func (f *TagField) UnmarshalYAML(unmarshal func(any) error) error {
	var in tagFieldYAML
	if err := unmarshal(&in); err != nil {
		return err
	}

	set := 0
	*f = TagField{}
	if in.BoolValue != nil {
		*f = BoolField(*in.BoolValue)
		set++
	}
	if in.DoubleValue != nil {
		*f = DoubleField(*in.DoubleValue)
		set++
	}
	if in.StringValue != nil {
		*f = StringField(*in.StringValue)
		set++
	}
	if in.RichTextValue != nil {
		*f = RichTextField(*in.RichTextValue)
		set++
	}
	if in.TimestampValue != nil {
		*f = TimestampField(*in.TimestampValue)
		set++
	}
	if in.EnumValue != nil {
		*f = EnumField(*in.EnumValue)
		set++
	}
	if set != 1 {
		return fmt.Errorf("tag field must set exactly one value, got %d", set)
	}
	return nil
}

// MatchKey identifies the persisted tag a candidate tag corresponds to.
type MatchKey struct {
	Template string
	Column   string
}

// Key returns the exact (template, column) key of the tag.
func (t *Tag) Key() MatchKey {
	return MatchKey{Template: t.Template, Column: t.Column}
}

// FoldedKey returns the (template, lower(column)) key of the tag.
func (t *Tag) FoldedKey() MatchKey {
	return MatchKey{Template: t.Template, Column: strings.ToLower(t.Column)}
}
