package reconcile

import (
	"context"
	"strings"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/logging"
)

// UpsertTags creates or updates the candidate tags on entry.
//
// A candidate matches the first persisted tag with the same template and the
// same column, ignoring column case. Matched candidates receive the persisted
// tag name. Failures on one tag do not stop the others; they are joined into
// the returned error.
func (r *Reconciler) UpsertTags(ctx context.Context, entry *datacatalog.Entry, tags []*datacatalog.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	ctx = logging.WithEntry(ctx, entry.Name)
	logger := logging.FromContext(ctx)

	persisted, err := r.catalog.ListTags(ctx, entry.Name)
	if err != nil {
		return err
	}

	var errs []error
	for _, tag := range tags {
		logger.Debug().Str("template", tag.Template).Msg("Processing Tag")

		match := findFolded(persisted, tag)
		switch {
		case match == nil:
			created, err := r.catalog.CreateTag(ctx, entry.Name, tag)
			if err != nil {
				logger.Warn().Err(err).Str("template", tag.Template).Str("column", tag.Column).Msg("Tag was not created")
				errs = append(errs, err)
				continue
			}
			tag.Name = created.Name
			logger.Info().Str("tag", created.Name).Msg("Tag created")

		case !TagFieldsEqual(tag, match):
			tag.Name = match.Name
			if _, err := r.catalog.UpdateTag(ctx, tag); err != nil {
				logger.Warn().Err(err).Str("tag", tag.Name).Msg("Tag was not updated")
				errs = append(errs, err)
				continue
			}
			logger.Info().Str("tag", tag.Name).Msg("Tag updated")

		default:
			tag.Name = match.Name
			logger.Info().Str("tag", tag.Name).Msg("Tag is up-to-date")
		}
	}
	return errors.Join(errs...)
}

// DeleteTags deletes the persisted tags of entry whose template contains
// managedTemplate and that no candidate shares an exact (template, column)
// key with. Tags of other templates are never touched.
func (r *Reconciler) DeleteTags(ctx context.Context, entry *datacatalog.Entry, tags []*datacatalog.Tag, managedTemplate string) error {
	ctx = logging.WithEntry(ctx, entry.Name)
	logger := logging.FromContext(ctx)

	persisted, err := r.catalog.ListTags(ctx, entry.Name)
	if err != nil {
		return err
	}

	keep := make(map[datacatalog.MatchKey]struct{}, len(tags))
	for _, tag := range tags {
		keep[tag.Key()] = struct{}{}
	}

	var errs []error
	for _, p := range persisted {
		if !strings.Contains(p.Template, managedTemplate) {
			continue
		}
		if _, ok := keep[p.Key()]; ok {
			logger.Debug().Str("tag", p.Name).Msg("Tag is up-to-date")
			continue
		}
		if err := r.catalog.DeleteTag(ctx, p); err != nil {
			logger.Warn().Err(err).Str("tag", p.Name).Msg("Tag was not deleted")
			errs = append(errs, err)
			continue
		}
		logger.Info().Str("tag", p.Name).Msg("Tag deleted")
	}
	return errors.Join(errs...)
}

// findFolded returns the first persisted tag matching tag's folded key.
func findFolded(persisted []*datacatalog.Tag, tag *datacatalog.Tag) *datacatalog.Tag {
	key := tag.FoldedKey()
	for _, p := range persisted {
		if p.FoldedKey() == key {
			return p
		}
	}
	return nil
}

// TagFieldsEqual reports whether every field of candidate has an equal value
// on persisted. Fields only present on persisted are ignored.
func TagFieldsEqual(candidate, persisted *datacatalog.Tag) bool {
	for id, want := range candidate.Fields {
		got, ok := persisted.Fields[id]
		if !ok || !fieldValuesEqual(want, got) {
			return false
		}
	}
	return true
}

// fieldValuesEqual compares two field values. Timestamps are compared at
// second resolution and are equal when either side has no value.
func fieldValuesEqual(a, b datacatalog.TagField) bool {
	if a.BoolValue != b.BoolValue ||
		a.DoubleValue != b.DoubleValue ||
		a.StringValue != b.StringValue ||
		a.EnumValue != b.EnumValue {
		return false
	}
	if a.TimestampValue.IsZero() || b.TimestampValue.IsZero() {
		return true
	}
	return a.TimestampValue.Unix() == b.TimestampValue.Unix()
}
