// Package cleanup removes catalog metadata that a source system no longer
// reports: entries missing from the latest assembled batch and the entry
// groups they leave empty.
package cleanup

import (
	"context"
	"sort"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/logging"
)

// Catalog is the catalog facade surface needed for cleanup.
type Catalog interface {
	SearchCatalogRelativeResourceName(ctx context.Context, query string) ([]string, error)
	DeleteEntry(ctx context.Context, name string)
	DeleteEntryGroup(ctx context.Context, name string) error
}

// Cleaner deletes obsolete metadata from one entry group.
type Cleaner struct {
	catalog      Catalog
	projectID    string
	locationID   string
	entryGroupID string
}

// New creates a cleaner for projects/{projectID}/locations/{locationID}/entryGroups/{entryGroupID}.
func New(c Catalog, projectID, locationID, entryGroupID string) *Cleaner {
	return &Cleaner{
		catalog:      c,
		projectID:    projectID,
		locationID:   locationID,
		entryGroupID: entryGroupID,
	}
}

// DeleteObsoleteMetadata deletes every entry matched by query that is not
// part of newEntries, then attempts to delete each entry group the matched
// entries belong to. Groups that still hold entries fail deletion and are
// skipped.
func (c *Cleaner) DeleteObsoleteMetadata(ctx context.Context, newEntries []*datacatalog.AssembledEntryData, query string) error {
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Starting to clean up the catalog")

	existing, err := c.catalog.SearchCatalogRelativeResourceName(ctx, query)
	if err != nil {
		return err
	}
	logger.Info().Int("count", len(existing)).Str("query", query).Msg("Entries matching the search query exist in Data Catalog")

	current := make(map[string]struct{}, len(newEntries))
	for _, data := range newEntries {
		current[c.entryName(data)] = struct{}{}
	}

	obsolete := make(map[string]struct{})
	for _, name := range existing {
		if _, ok := current[name]; !ok {
			obsolete[name] = struct{}{}
		}
	}
	logger.Info().Int("count", len(obsolete)).Msg("Entries will be deleted")

	for _, name := range sortedKeys(obsolete) {
		c.catalog.DeleteEntry(ctx, name)
	}

	c.cleanupEntryGroups(ctx, existing)
	return nil
}

// cleanupEntryGroups attempts to delete the entry group of every name.
// Failures are logged and skipped.
func (c *Cleaner) cleanupEntryGroups(ctx context.Context, entryNames []string) {
	logger := logging.FromContext(ctx)

	groups := make(map[string]struct{})
	for _, name := range entryNames {
		if group, _, ok := datacatalog.ParseEntryName(name); ok {
			groups[group] = struct{}{}
		}
	}

	for _, group := range sortedKeys(groups) {
		if err := c.catalog.DeleteEntryGroup(ctx, group); err != nil {
			logger.Info().Str("entry_group", group).Msg("Entry Group was not deleted")
			logger.Debug().Err(err).Str("entry_group", group).Send()
		}
	}
}

// DeleteMetadata deletes every entry of the batch by its constructed name.
func (c *Cleaner) DeleteMetadata(ctx context.Context, entries []*datacatalog.AssembledEntryData) {
	logging.FromContext(ctx).Info().Int("count", len(entries)).Msg("Starting the deletion flow")
	for _, data := range entries {
		c.catalog.DeleteEntry(ctx, datacatalog.EntryName(c.projectID, c.locationID, c.entryGroupID, data.EntryID))
	}
}

// entryName returns the entry's resource name, constructing it from the entry
// id when the assembled entry does not carry one.
func (c *Cleaner) entryName(data *datacatalog.AssembledEntryData) string {
	if data.Entry.Persisted() {
		return data.Entry.Name
	}
	return datacatalog.EntryName(c.projectID, c.locationID, c.entryGroupID, data.EntryID)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
