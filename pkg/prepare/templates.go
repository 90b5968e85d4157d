package prepare

import "github.com/agentstation/catalogsync/pkg/datacatalog"

// NewTagTemplate returns a tag template with no fields.
func NewTagTemplate(displayName string) *datacatalog.TagTemplate {
	return &datacatalog.TagTemplate{
		DisplayName: displayName,
		Fields:      make(map[string]datacatalog.TagTemplateField),
	}
}

// AddPrimitiveField declares a primitive typed field.
func AddPrimitiveField(template *datacatalog.TagTemplate, fieldID string, fieldType datacatalog.PrimitiveType, displayName string) {
	addField(template, fieldID, datacatalog.TagTemplateField{
		DisplayName: displayName,
		Type:        datacatalog.FieldType{Primitive: fieldType},
	})
}

// AddEnumField declares an enum field with the given allowed display names.
func AddEnumField(template *datacatalog.TagTemplate, fieldID string, values []string, displayName string) {
	allowed := make([]string, len(values))
	copy(allowed, values)
	addField(template, fieldID, datacatalog.TagTemplateField{
		DisplayName: displayName,
		Type:        datacatalog.FieldType{Enum: &datacatalog.EnumType{AllowedValues: allowed}},
	})
}

func addField(template *datacatalog.TagTemplate, fieldID string, field datacatalog.TagTemplateField) {
	if template.Fields == nil {
		template.Fields = make(map[string]datacatalog.TagTemplateField)
	}
	template.Fields[fieldID] = field
}
