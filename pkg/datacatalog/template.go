package datacatalog

// PrimitiveType is a primitive tag template field type.
type PrimitiveType string

// Primitive field types.
const (
	PrimitiveDouble    PrimitiveType = "DOUBLE"
	PrimitiveString    PrimitiveType = "STRING"
	PrimitiveBool      PrimitiveType = "BOOL"
	PrimitiveTimestamp PrimitiveType = "TIMESTAMP"
	PrimitiveRichText  PrimitiveType = "RICHTEXT"
)

// TagTemplate is the schema of the fields a tag may carry.
type TagTemplate struct {
	Name        string                      `json:"name,omitempty" yaml:"name,omitempty"`
	DisplayName string                      `json:"display_name" yaml:"display_name" validate:"required"`
	Fields      map[string]TagTemplateField `json:"fields" yaml:"fields" validate:"required,min=1,dive"`
}

// TagTemplateField is one field declared by a tag template.
type TagTemplateField struct {
	DisplayName string    `json:"display_name" yaml:"display_name" validate:"required"`
	IsRequired  bool      `json:"is_required,omitempty" yaml:"is_required,omitempty"`
	Order       int64     `json:"order,omitempty" yaml:"order,omitempty"`
	Type        FieldType `json:"type" yaml:"type"`
}

// FieldType is either a primitive type or an enum. Enum wins when both are set.
type FieldType struct {
	Primitive PrimitiveType `json:"primitive,omitempty" yaml:"primitive,omitempty" validate:"omitempty,oneof=DOUBLE STRING BOOL TIMESTAMP RICHTEXT"`
	Enum      *EnumType     `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// EnumType lists the allowed display names of an enum field.
type EnumType struct {
	AllowedValues []string `json:"allowed_values" yaml:"allowed_values" validate:"required,min=1"`
}

// IsEnum reports whether the field type is an enum.
func (t FieldType) IsEnum() bool {
	return t.Enum != nil
}

// FieldKind returns the tag field kind a value of this type is stored as.
func (t FieldType) FieldKind() FieldKind {
	if t.IsEnum() {
		return FieldKindEnum
	}
	switch t.Primitive {
	case PrimitiveBool:
		return FieldKindBool
	case PrimitiveDouble:
		return FieldKindDouble
	case PrimitiveString:
		return FieldKindString
	case PrimitiveTimestamp:
		return FieldKindTimestamp
	case PrimitiveRichText:
		return FieldKindRichText
	default:
		return FieldKindUnset
	}
}
