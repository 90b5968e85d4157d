package ingest

import "encoding/json"

// Config holds the recognized ingestion options.
type Config struct {
	// DeleteTags enables pruning of stale tags when present, even if empty
	// or null.
	DeleteTags *DeleteTagsConfig `json:"delete_tags,omitempty" yaml:"delete_tags,omitempty"`
}

// DeleteTagsConfig configures stale tag pruning.
type DeleteTagsConfig struct {
	// ManagedTagTemplate is matched as a substring of persisted tag templates.
	// Defaults to the entry group id.
	ManagedTagTemplate string `json:"managed_tag_template,omitempty" yaml:"managed_tag_template,omitempty"`
}

// plainConfig has Config's fields without its decoding methods.
type plainConfig Config

const deleteTagsKey = "delete_tags"

// UnmarshalYAML keeps a bare "delete_tags:" key, which decodes as null,
// distinct from an absent one.
func (c *Config) UnmarshalYAML(unmarshal func(any) error) error {
	var keys map[string]any
	if err := unmarshal(&keys); err != nil {
		return err
	}
	var p plainConfig
	if err := unmarshal(&p); err != nil {
		return err
	}
	_, present := keys[deleteTagsKey]
	c.set(p, present)
	return nil
}

// UnmarshalJSON is UnmarshalYAML for "delete_tags": null.
func (c *Config) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	var p plainConfig
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	_, present := keys[deleteTagsKey]
	c.set(p, present)
	return nil
}

func (c *Config) set(p plainConfig, deleteTagsPresent bool) {
	*c = Config(p)
	if deleteTagsPresent && c.DeleteTags == nil {
		c.DeleteTags = &DeleteTagsConfig{}
	}
}

// managedTemplate resolves the template substring whose tags may be deleted.
func (c *Config) managedTemplate(entryGroupID string) (string, bool) {
	if c == nil || c.DeleteTags == nil {
		return "", false
	}
	if c.DeleteTags.ManagedTagTemplate != "" {
		return c.DeleteTags.ManagedTagTemplate, true
	}
	return entryGroupID, true
}
