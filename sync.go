package catalogsync

import (
	"context"
	"time"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/ingest"
	"github.com/agentstation/catalogsync/pkg/logging"
	"github.com/agentstation/catalogsync/pkg/manifest"
)

// Result summarizes a Sync run.
type Result struct {
	Ingest      *ingest.Result `json:"ingest" yaml:"ingest"`
	CleanedUp   bool           `json:"cleaned_up" yaml:"cleaned_up"`
	Elapsed     time.Duration  `json:"elapsed" yaml:"elapsed"`
	TaskID      string         `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	EntryGroup  string         `json:"entry_group" yaml:"entry_group"`
	EntriesSeen int            `json:"entries_seen" yaml:"entries_seen"`
}

// SyncOption configures a Sync run.
type SyncOption func(*SyncOptions)

// SyncOptions holds the options of a Sync run.
type SyncOptions struct {
	Timeout      time.Duration // zero means no timeout
	CleanupQuery string        // empty disables cleanup
	Config       *ingest.Config
}

// NewSyncOptions applies opts over the defaults.
func NewSyncOptions(opts ...SyncOption) *SyncOptions {
	o := &SyncOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTimeout bounds the whole run.
func WithTimeout(timeout time.Duration) SyncOption {
	return func(o *SyncOptions) {
		o.Timeout = timeout
	}
}

// WithCleanupQuery enables obsolete metadata cleanup with the given search query.
func WithCleanupQuery(query string) SyncOption {
	return func(o *SyncOptions) {
		o.CleanupQuery = query
	}
}

// WithIngestConfig overrides the ingestion config of the manifest.
func WithIngestConfig(cfg *ingest.Config) SyncOption {
	return func(o *SyncOptions) {
		o.Config = cfg
	}
}

// Sync ingests a manifest, then optionally cleans up obsolete metadata.
func (c *client) Sync(ctx context.Context, m *manifest.Manifest, opts ...SyncOption) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	if m == nil {
		return nil, errors.NewValidationError("manifest", nil, "manifest is required")
	}
	if err := c.options.requireEntryGroup(); err != nil {
		return nil, err
	}

	// Step 1: Parse options, falling back to the manifest settings
	options := NewSyncOptions(opts...)
	if options.Config == nil {
		options.Config = m.Config
	}
	if options.CleanupQuery == "" {
		options.CleanupQuery = m.CleanupQuery
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()
	ctx = logging.WithEntryGroup(ctx, c.options.entryGroupID)
	if taskID := c.TaskID(); taskID != "" {
		ctx = logging.WithTaskID(ctx, taskID)
	}

	// Step 3: Resolve template ids used by tags
	m.ResolveTemplateNames(c.options.projectID, c.options.locationID)

	// Step 4: Ingest
	start := time.Now()
	ingestResult, err := c.Ingest(ctx, m.Entries, m.TagTemplates, options.Config)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Ingest:      ingestResult,
		TaskID:      c.TaskID(),
		EntryGroup:  ingestResult.EntryGroupName,
		EntriesSeen: len(m.Entries),
	}

	// Step 5: Clean up obsolete metadata
	if options.CleanupQuery != "" {
		if err := c.Cleanup(ctx, m.Entries, options.CleanupQuery); err != nil {
			return nil, err
		}
		result.CleanedUp = true
	}

	result.Elapsed = time.Since(start)
	logging.FromContext(ctx).Info().
		Int("processed", ingestResult.EntriesProcessed).
		Int("failed", ingestResult.EntriesFailed).
		Bool("cleaned_up", result.CleanedUp).
		Dur("elapsed", result.Elapsed).
		Msg("Sync completed")

	return result, nil
}

// Ingest runs the ingestion flow and reports its metrics.
func (c *client) Ingest(ctx context.Context, entries []*datacatalog.AssembledEntryData, templates map[string]*datacatalog.TagTemplate, cfg *ingest.Config) (*ingest.Result, error) {
	if err := c.options.requireEntryGroup(); err != nil {
		return nil, err
	}
	c.processor.ResetStartTime()

	result, err := c.ingestor.IngestMetadata(ctx, entries, templates, cfg)
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	if err := c.processor.ProcessEntriesLengthMetric(ctx, len(entries)); err != nil {
		logger.Warn().Err(err).Msg("Failed to write entries length metric")
	}
	if err := c.processor.ProcessMetadataPayloadBytesMetric(ctx, entries); err != nil {
		logger.Warn().Err(err).Msg("Failed to write metadata payload bytes metric")
	}
	if err := c.processor.ProcessElapsedTimeMetric(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to write elapsed time metric")
	}
	return result, nil
}

// Cleanup deletes obsolete entries and the entry groups left empty.
func (c *client) Cleanup(ctx context.Context, entries []*datacatalog.AssembledEntryData, query string) error {
	if query == "" {
		return errors.NewValidationError("query", query, "cleanup query is required")
	}
	if err := c.options.requireEntryGroup(); err != nil {
		return err
	}
	return c.cleaner.DeleteObsoleteMetadata(ctx, entries, query)
}

// Delete deletes the given entries. Failures on single entries are logged.
func (c *client) Delete(ctx context.Context, entries []*datacatalog.AssembledEntryData) error {
	if err := c.options.requireEntryGroup(); err != nil {
		return err
	}
	c.cleaner.DeleteMetadata(ctx, entries)
	return nil
}
