// Package ingest drives an ingestion run end to end: bootstrap tag templates
// and the entry group, then reconcile every assembled entry and its tags in
// input order.
package ingest

import (
	"context"
	"sort"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/logging"
	"github.com/agentstation/catalogsync/pkg/reconcile"
)

// Catalog is the catalog facade surface needed by an ingestion run.
type Catalog interface {
	reconcile.Catalog
	CreateTagTemplate(ctx context.Context, locationID, templateID string, template *datacatalog.TagTemplate) (*datacatalog.TagTemplate, error)
	CreateEntryGroup(ctx context.Context, locationID, entryGroupID string) (*datacatalog.EntryGroup, error)
}

// Result summarizes an ingestion run.
type Result struct {
	EntryGroupName   string `json:"entry_group_name" yaml:"entry_group_name"`
	EntriesProcessed int    `json:"entries_processed" yaml:"entries_processed"`
	EntriesFailed    int    `json:"entries_failed" yaml:"entries_failed"`
	EntriesSkipped   int    `json:"entries_skipped" yaml:"entries_skipped"` // created under a parent that was not visible yet
	TagsFailed       int    `json:"tags_failed" yaml:"tags_failed"`
}

// Ingestor ingests assembled metadata into one entry group.
type Ingestor struct {
	catalog      Catalog
	reconciler   *reconcile.Reconciler
	projectID    string
	locationID   string
	entryGroupID string
}

// New creates an ingestor for projects/{projectID}/locations/{locationID}/entryGroups/{entryGroupID}.
func New(c Catalog, projectID, locationID, entryGroupID string) *Ingestor {
	return &Ingestor{
		catalog:      c,
		reconciler:   reconcile.New(c),
		projectID:    projectID,
		locationID:   locationID,
		entryGroupID: entryGroupID,
	}
}

// IngestMetadata runs the ingestion flow.
//
// Only bootstrap failures are returned: a tag template or entry group that
// could not be created for a reason other than already existing. Failures on
// individual entries and tags are logged, counted in the result and skipped.
func (i *Ingestor) IngestMetadata(ctx context.Context, entries []*datacatalog.AssembledEntryData, templates map[string]*datacatalog.TagTemplate, cfg *Config) (*Result, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Msg("Starting the ingestion flow")

	// Step 1: Tag templates
	if err := i.createTagTemplates(ctx, templates); err != nil {
		return nil, err
	}

	// Step 2: Entry group
	entryGroupName, err := i.createEntryGroup(ctx)
	if err != nil {
		return nil, err
	}

	// Step 3: Entries and tags
	result := &Result{EntryGroupName: entryGroupName}
	if err := i.ingestEntries(logging.WithEntryGroup(ctx, entryGroupName), entryGroupName, entries, cfg, result); err != nil {
		return result, err
	}

	logger.Info().
		Int("processed", result.EntriesProcessed).
		Int("failed", result.EntriesFailed).
		Int("skipped", result.EntriesSkipped).
		Int("tags_failed", result.TagsFailed).
		Msg("Ingestion flow finished")
	return result, nil
}

func (i *Ingestor) createTagTemplates(ctx context.Context, templates map[string]*datacatalog.TagTemplate) error {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		_, err := i.catalog.CreateTagTemplate(ctx, i.locationID, id, templates[id])
		if err == nil {
			continue
		}
		if errors.KindOf(err) != errors.KindAlreadyExists {
			return errors.WrapResource("create", "tag_template", id, err)
		}
		logging.FromContext(ctx).Info().Str("tag_template", id).Msg("Tag Template already exists")
	}
	return nil
}

func (i *Ingestor) createEntryGroup(ctx context.Context) (string, error) {
	group, err := i.catalog.CreateEntryGroup(ctx, i.locationID, i.entryGroupID)
	if err == nil {
		return group.Name, nil
	}
	if errors.KindOf(err) != errors.KindAlreadyExists {
		return "", errors.WrapResource("create", "entry_group", i.entryGroupID, err)
	}

	name := datacatalog.EntryGroupName(i.projectID, i.locationID, i.entryGroupID)
	logging.FromContext(ctx).Info().
		Str("entry_group", name).
		Msg("Entry Group already exists, name built as fallback")
	return name, nil
}

func (i *Ingestor) ingestEntries(ctx context.Context, entryGroupName string, entries []*datacatalog.AssembledEntryData, cfg *Config, result *Result) error {
	logger := logging.FromContext(ctx)
	managedTemplate, deleteTags := cfg.managedTemplate(i.entryGroupID)

	for n, data := range entries {
		if err := ctx.Err(); err != nil {
			return errors.WrapResource("ingest", "entry_group", entryGroupName, errors.Join(errors.ErrCanceled, err))
		}
		logger.Info().Msgf("%d/%d", n+1, len(entries))

		entry, err := i.reconciler.UpsertEntry(ctx, entryGroupName, data.EntryID, data.Entry)
		if err != nil {
			logger.Error().Err(err).Str("entry_id", data.EntryID).Msg("Entry was not upserted")
			result.EntriesFailed++
			continue
		}
		result.EntriesProcessed++

		if !entry.Persisted() {
			result.EntriesSkipped++
			continue
		}

		logger.Debug().Str("entry", entry.Name).Msg("Starting the upsert tags step")
		if err := i.reconciler.UpsertTags(ctx, entry, data.Tags); err != nil {
			result.TagsFailed += countErrors(err)
		}

		if deleteTags {
			logger.Debug().Str("entry", entry.Name).Msg("Starting the delete tags step")
			if err := i.reconciler.DeleteTags(ctx, entry, data.Tags, managedTemplate); err != nil {
				result.TagsFailed += countErrors(err)
			}
		}
	}
	return nil
}

// countErrors returns the number of errors joined into err.
func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
