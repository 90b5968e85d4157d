package catalog

import (
	"context"
	"strings"

	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/logging"
)

// Facade is a thin wrapper over the remote catalog scoped to one project.
type Facade struct {
	service   Service
	projectID string
}

// NewFacade creates a facade over service for the given project.
func NewFacade(service Service, projectID string) *Facade {
	return &Facade{service: service, projectID: projectID}
}

// ProjectID returns the project the facade is scoped to.
func (f *Facade) ProjectID() string {
	return f.projectID
}

// CreateEntry creates an entry under entryGroupName.
//
// When the catalog reports the parent as not found or not visible, the
// original unpersisted entry is returned with a nil error. Callers must check
// Entry.Persisted before treating the result as stored.
func (f *Facade) CreateEntry(ctx context.Context, entryGroupName, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	logger := logging.FromContext(ctx)

	created, err := f.service.CreateEntry(ctx, entryGroupName, entryID, entry)
	if err != nil {
		if errors.KindOf(err) == errors.KindNotFound {
			logger.Warn().
				Str("entry", datacatalog.EntryNameInGroup(entryGroupName, entryID)).
				Err(err).
				Msg("Entry was not created")
			return entry, nil
		}
		return nil, err
	}

	logEntry(ctx, "Entry created", created)
	return created, nil
}

// GetEntry retrieves an entry by name.
func (f *Facade) GetEntry(ctx context.Context, name string) (*datacatalog.Entry, error) {
	return f.service.GetEntry(ctx, name)
}

// UpdateEntry replaces an entry. No field mask is sent.
func (f *Facade) UpdateEntry(ctx context.Context, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	updated, err := f.service.UpdateEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	logEntry(ctx, "Entry updated", updated)
	return updated, nil
}

// DeleteEntry deletes an entry. Failures are logged and never returned.
func (f *Facade) DeleteEntry(ctx context.Context, name string) {
	logger := logging.FromContext(ctx)

	if err := f.service.DeleteEntry(ctx, name); err != nil {
		logger.Info().Str("entry", name).Msg("An error occurred while attempting to delete Entry")
		logger.Debug().Err(err).Str("entry", name).Send()
		return
	}
	logger.Info().Str("entry", name).Msg("Entry deleted")
}

// CreateEntryGroup creates an empty entry group in the given location.
func (f *Facade) CreateEntryGroup(ctx context.Context, locationID, entryGroupID string) (*datacatalog.EntryGroup, error) {
	group, err := f.service.CreateEntryGroup(ctx,
		datacatalog.LocationName(f.projectID, locationID), entryGroupID, &datacatalog.EntryGroup{})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Str("entry_group", group.Name).Msg("Entry Group created")
	return group, nil
}

// DeleteEntryGroup deletes an entry group. It fails while the group has entries.
func (f *Facade) DeleteEntryGroup(ctx context.Context, name string) error {
	if err := f.service.DeleteEntryGroup(ctx, name); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("entry_group", name).Msg("Entry Group deleted")
	return nil
}

// CreateTagTemplate creates a tag template in the given location.
func (f *Facade) CreateTagTemplate(ctx context.Context, locationID, templateID string, template *datacatalog.TagTemplate) (*datacatalog.TagTemplate, error) {
	created, err := f.service.CreateTagTemplate(ctx,
		datacatalog.LocationName(f.projectID, locationID), templateID, template)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Str("tag_template", created.Name).Msg("Tag Template created")
	return created, nil
}

// GetTagTemplate retrieves a tag template by name.
func (f *Facade) GetTagTemplate(ctx context.Context, name string) (*datacatalog.TagTemplate, error) {
	return f.service.GetTagTemplate(ctx, name)
}

// DeleteTagTemplate deletes a tag template, detaching any tags that use it.
func (f *Facade) DeleteTagTemplate(ctx context.Context, name string) error {
	if err := f.service.DeleteTagTemplate(ctx, name, true); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Str("tag_template", name).Msg("Tag Template deleted")
	return nil
}

// CreateTag attaches a tag to an entry.
func (f *Facade) CreateTag(ctx context.Context, entryName string, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	return f.service.CreateTag(ctx, entryName, tag)
}

// UpdateTag replaces a tag. The tag must carry its resource name.
func (f *Facade) UpdateTag(ctx context.Context, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	return f.service.UpdateTag(ctx, tag)
}

// DeleteTag deletes a tag by its resource name.
func (f *Facade) DeleteTag(ctx context.Context, tag *datacatalog.Tag) error {
	return f.service.DeleteTag(ctx, tag.Name)
}

// ListTags returns every tag attached to an entry.
func (f *Facade) ListTags(ctx context.Context, entryName string) ([]*datacatalog.Tag, error) {
	return f.service.ListTags(ctx, entryName)
}

// SearchCatalog searches the facade's project.
func (f *Facade) SearchCatalog(ctx context.Context, query string) ([]*datacatalog.SearchResult, error) {
	return f.service.SearchCatalog(ctx, datacatalog.SearchRequest{
		Query:      query,
		ProjectIDs: []string{f.projectID},
		PageSize:   constants.SearchPageSize,
	})
}

// SearchCatalogRelativeResourceName searches the catalog and returns the
// resource name of every result.
func (f *Facade) SearchCatalogRelativeResourceName(ctx context.Context, query string) ([]string, error) {
	results, err := f.SearchCatalog(ctx, query)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.RelativeResourceName)
	}
	return names, nil
}

// GetTagFieldValuesForSearchResults collects the value of one tag field across
// every entry matched by query. Only tags whose template contains template are
// considered; tags without the field are skipped. Values are projected by
// fieldType, enums yield their display name.
func (f *Facade) GetTagFieldValuesForSearchResults(ctx context.Context, query, template, fieldID string, fieldType datacatalog.PrimitiveType) ([]any, error) {
	names, err := f.SearchCatalogRelativeResourceName(ctx, query)
	if err != nil {
		return nil, err
	}

	var values []any
	for _, name := range names {
		tags, err := f.ListTags(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, tag := range tags {
			if !strings.Contains(tag.Template, template) {
				continue
			}
			field, ok := tag.Fields[fieldID]
			if !ok {
				continue
			}
			values = append(values, projectField(field, fieldType))
		}
	}
	return values, nil
}

func projectField(field datacatalog.TagField, fieldType datacatalog.PrimitiveType) any {
	switch fieldType {
	case datacatalog.PrimitiveString, datacatalog.PrimitiveRichText:
		return field.StringValue
	case datacatalog.PrimitiveBool:
		return field.BoolValue
	case datacatalog.PrimitiveDouble:
		return field.DoubleValue
	case datacatalog.PrimitiveTimestamp:
		return field.TimestampValue
	default:
		return field.EnumValue
	}
}

func logEntry(ctx context.Context, msg string, entry *datacatalog.Entry) {
	logging.FromContext(ctx).Info().
		Str("entry", entry.Name).
		Str("type", entry.UserSpecifiedType).
		Str("linked_resource", entry.LinkedResource).
		Msg(msg)
}
