package reconcile

import (
	"context"

	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
	"github.com/agentstation/catalogsync/pkg/logging"
)

// UpsertEntry creates the entry when it does not exist, updates it when it
// changed and leaves it untouched otherwise.
//
// A concurrent modification reported on update is logged and the persisted
// entry is returned with a nil error. When the entry group is not visible yet
// the returned entry is the unpersisted candidate.
func (r *Reconciler) UpsertEntry(ctx context.Context, entryGroupName, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	name := datacatalog.EntryNameInGroup(entryGroupName, entryID)
	ctx = logging.WithEntry(ctx, name)
	logger := logging.FromContext(ctx)

	persisted, err := r.catalog.GetEntry(ctx, name)
	if err != nil {
		if errors.KindOf(err) != errors.KindNotFound {
			return nil, err
		}
		logger.Info().Msg("Entry does not exist")
		return r.catalog.CreateEntry(ctx, entryGroupName, entryID, entry)
	}

	logger.Info().Msg("Entry already exists")
	if !EntryChanged(persisted, entry) {
		logger.Info().
			Str("type", persisted.UserSpecifiedType).
			Str("linked_resource", persisted.LinkedResource).
			Msg("Entry is up-to-date")
		return persisted, nil
	}

	candidate := entry.Clone()
	candidate.Name = persisted.Name
	updated, err := r.catalog.UpdateEntry(ctx, candidate)
	if err != nil {
		if errors.IsPreconditionFailed(err) {
			logger.Warn().Err(err).Msg("Entry was not updated")
			return persisted, nil
		}
		return nil, err
	}
	return updated, nil
}

// EntryChanged reports whether candidate differs from persisted. A non-zero
// candidate update time that differs from the persisted one is a change;
// otherwise the semantic fields are compared.
func EntryChanged(persisted, candidate *datacatalog.Entry) bool {
	candidateTime := candidate.UpdateTimeSeconds()
	if candidateTime != 0 && candidateTime != persisted.UpdateTimeSeconds() {
		return true
	}
	return persisted.Semantics() != candidate.Semantics()
}
