package datacatalog

import "time"

// Entry represents a catalog record describing one external asset.
type Entry struct {
	Name                   string            `json:"name,omitempty" yaml:"name,omitempty"`                                         // Resource name, empty until persisted
	UserSpecifiedType      string            `json:"user_specified_type,omitempty" yaml:"user_specified_type,omitempty"`           // Asset type, e.g. "table"
	UserSpecifiedSystem    string            `json:"user_specified_system,omitempty" yaml:"user_specified_system,omitempty"`       // Source system, e.g. "sqlserver"
	DisplayName            string            `json:"display_name,omitempty" yaml:"display_name,omitempty"`                         // Human readable name
	Description            string            `json:"description,omitempty" yaml:"description,omitempty"`                           // Free text description
	LinkedResource         string            `json:"linked_resource,omitempty" yaml:"linked_resource,omitempty"`                   // Full name of the source asset
	SourceSystemTimestamps *SystemTimestamps `json:"source_system_timestamps,omitempty" yaml:"source_system_timestamps,omitempty"` // Timestamps reported by the source
	Schema                 *Schema           `json:"schema,omitempty" yaml:"schema,omitempty"`                                     // Optional column schema
}

// SystemTimestamps holds source system timestamps. A zero time means "not set".
type SystemTimestamps struct {
	CreateTime time.Time `json:"create_time,omitzero" yaml:"create_time,omitempty"`
	UpdateTime time.Time `json:"update_time,omitzero" yaml:"update_time,omitempty"`
}

// Schema is the column schema of a table-like entry.
type Schema struct {
	Columns []*ColumnSchema `json:"columns,omitempty" yaml:"columns,omitempty"`
}

// ColumnSchema describes one column, possibly with nested subcolumns.
type ColumnSchema struct {
	Column      string          `json:"column" yaml:"column"`
	Type        string          `json:"type" yaml:"type"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Mode        string          `json:"mode,omitempty" yaml:"mode,omitempty"` // NULLABLE, REQUIRED or REPEATED
	Subcolumns  []*ColumnSchema `json:"subcolumns,omitempty" yaml:"subcolumns,omitempty"`
}

// EntrySemantics is the fixed set of fields that decide whether an entry changed.
// It is a comparable value type; two entries are equal when their semantics are ==.
type EntrySemantics struct {
	UserSpecifiedSystem string
	UserSpecifiedType   string
	DisplayName         string
	Description         string
	LinkedResource      string
}

// Semantics returns the comparison fields of the entry.
func (e *Entry) Semantics() EntrySemantics {
	if e == nil {
		return EntrySemantics{}
	}
	return EntrySemantics{
		UserSpecifiedSystem: e.UserSpecifiedSystem,
		UserSpecifiedType:   e.UserSpecifiedType,
		DisplayName:         e.DisplayName,
		Description:         e.Description,
		LinkedResource:      e.LinkedResource,
	}
}

// UpdateTimeSeconds returns the source update time in epoch seconds, or 0 when unset.
func (e *Entry) UpdateTimeSeconds() int64 {
	if e == nil || e.SourceSystemTimestamps == nil || e.SourceSystemTimestamps.UpdateTime.IsZero() {
		return 0
	}
	return e.SourceSystemTimestamps.UpdateTime.Unix()
}

// Persisted reports whether the entry carries a remote resource name.
func (e *Entry) Persisted() bool {
	return e != nil && e.Name != ""
}

// Clone returns a shallow copy of the entry with its own timestamps.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.SourceSystemTimestamps != nil {
		ts := *e.SourceSystemTimestamps
		c.SourceSystemTimestamps = &ts
	}
	return &c
}

// EntryGroup is a named container of entries.
type EntryGroup struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// AssembledEntryData is one prepared entry together with the tags to attach to it.
// The batch is read-only to the reconcilers except for Tag.Name, which is filled
// in as tags are matched or created.
type AssembledEntryData struct {
	EntryID string `json:"entry_id" yaml:"entry_id" validate:"required"`
	Entry   *Entry `json:"entry" yaml:"entry" validate:"required"`
	Tags    []*Tag `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive"`
}
