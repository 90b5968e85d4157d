package prepare

import (
	"time"

	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
)

// NewTag returns an empty tag for template, attached to column when column
// is not empty.
func NewTag(template, column string) *datacatalog.Tag {
	return &datacatalog.Tag{
		Template: template,
		Column:   column,
		Fields:   make(map[string]datacatalog.TagField),
	}
}

// SetBoolField sets a bool field.
func SetBoolField(tag *datacatalog.Tag, fieldID string, value bool) {
	setField(tag, fieldID, datacatalog.BoolField(value))
}

// SetDoubleField sets a double field.
func SetDoubleField(tag *datacatalog.Tag, fieldID string, value float64) {
	setField(tag, fieldID, datacatalog.DoubleField(value))
}

// SetStringField sets a string field, truncated to the catalog's 2000 byte
// limit. Empty values are not set.
func SetStringField(tag *datacatalog.Tag, fieldID, value string) {
	if value == "" {
		return
	}
	setField(tag, fieldID, datacatalog.StringField(TruncateString(value, constants.MaxStringFieldLength)))
}

// SetTimestampField sets a timestamp field. Zero times are not set.
func SetTimestampField(tag *datacatalog.Tag, fieldID string, value time.Time) {
	if value.IsZero() {
		return
	}
	setField(tag, fieldID, datacatalog.TimestampField(value))
}

// SetEnumField sets an enum field by display name. Empty values are not set.
func SetEnumField(tag *datacatalog.Tag, fieldID, displayName string) {
	if displayName == "" {
		return
	}
	setField(tag, fieldID, datacatalog.EnumField(displayName))
}

func setField(tag *datacatalog.Tag, fieldID string, field datacatalog.TagField) {
	if tag.Fields == nil {
		tag.Fields = make(map[string]datacatalog.TagField)
	}
	tag.Fields[fieldID] = field
}
