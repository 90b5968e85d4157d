// Package manifest loads the YAML description of an ingestion run: the
// target entry group, the tag templates to bootstrap, the assembled entries
// and the ingestion options.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/ingest"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Manifest is the content of a manifest file.
type Manifest struct {
	ProjectID    string                              `json:"project_id,omitempty" yaml:"project_id,omitempty"`
	LocationID   string                              `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	EntryGroupID string                              `json:"entry_group_id,omitempty" yaml:"entry_group_id,omitempty" validate:"omitempty,max=64"`
	CleanupQuery string                              `json:"cleanup_query,omitempty" yaml:"cleanup_query,omitempty"`
	Config       *ingest.Config                      `json:"config,omitempty" yaml:"config,omitempty"`
	TagTemplates map[string]*datacatalog.TagTemplate `json:"tag_templates,omitempty" yaml:"tag_templates,omitempty" validate:"dive,keys,max=64,endkeys,required"`
	Entries      []*datacatalog.AssembledEntryData   `json:"entries" yaml:"entries" validate:"dive,required"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates manifest content. source names the content in
// error messages.
func Parse(data []byte, source string) (*Manifest, error) {
	var m Manifest
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.DisallowUnknownField()); err != nil {
		return nil, &errors.ParseError{
			Format:  "yaml",
			File:    source,
			Message: yaml.FormatError(err, false, true),
			Err:     err,
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest structure.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return validationError(err)
	}

	seen := make(map[string]struct{}, len(m.Entries))
	for _, data := range m.Entries {
		if _, ok := seen[data.EntryID]; ok {
			return errors.NewValidationError("entries.entry_id", data.EntryID, "duplicate entry id")
		}
		seen[data.EntryID] = struct{}{}
	}
	return nil
}

// ResolveTemplateNames expands tag templates given by id into full resource
// names in projects/{project}/locations/{location}.
func (m *Manifest) ResolveTemplateNames(project, location string) {
	for _, data := range m.Entries {
		for _, tag := range data.Tags {
			if tag.Template != "" && !strings.Contains(tag.Template, "/") {
				tag.Template = datacatalog.TagTemplateName(project, location, tag.Template)
			}
		}
	}
}

// ParseAsMap decodes YAML content into a generic map.
func ParseAsMap(content string) (map[string]any, error) {
	out := make(map[string]any)
	if err := yaml.Unmarshal([]byte(content), &out); err != nil {
		return nil, errors.WrapParse("yaml", "", err)
	}
	return out, nil
}

// validationError converts validator errors into an errors.ValidationError
// naming the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WrapValidation("manifest", err)
	}

	fe := verrs[0]
	msg := fmt.Sprintf("rule '%s'", fe.Tag())
	if fe.Param() != "" {
		msg += fmt.Sprintf(" expected '%s'", fe.Param())
	}
	if len(verrs) > 1 {
		msg += fmt.Sprintf(" (and %d more)", len(verrs)-1)
	}
	return errors.NewValidationError(fe.Namespace(), fe.Value(), msg)
}
