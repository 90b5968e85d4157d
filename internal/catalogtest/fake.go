// Package catalogtest provides an in-memory catalog.Service for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
)

// Operation names recorded by Fake.
const (
	OpCreateEntry       = "CreateEntry"
	OpGetEntry          = "GetEntry"
	OpUpdateEntry       = "UpdateEntry"
	OpDeleteEntry       = "DeleteEntry"
	OpCreateEntryGroup  = "CreateEntryGroup"
	OpDeleteEntryGroup  = "DeleteEntryGroup"
	OpCreateTagTemplate = "CreateTagTemplate"
	OpGetTagTemplate    = "GetTagTemplate"
	OpDeleteTagTemplate = "DeleteTagTemplate"
	OpCreateTag         = "CreateTag"
	OpUpdateTag         = "UpdateTag"
	OpDeleteTag         = "DeleteTag"
	OpListTags          = "ListTags"
	OpSearchCatalog     = "SearchCatalog"
)

var writeOps = []string{
	OpCreateEntry, OpUpdateEntry, OpDeleteEntry,
	OpCreateEntryGroup, OpDeleteEntryGroup,
	OpCreateTagTemplate, OpDeleteTagTemplate,
	OpCreateTag, OpUpdateTag, OpDeleteTag,
}

// Fake is an in-memory catalog. Entry groups are not required to exist
// before entries are created under them.
type Fake struct {
	mu        sync.Mutex
	entries   map[string]*datacatalog.Entry
	groups    map[string]*datacatalog.EntryGroup
	templates map[string]*datacatalog.TagTemplate
	tags      map[string][]*datacatalog.Tag
	tagSeq    int
	calls     map[string]int
	failures  map[string]error

	// SearchResults overrides search by query. When a query is absent every
	// stored entry is returned.
	SearchResults map[string][]*datacatalog.SearchResult
	// Searches records every search request.
	Searches []datacatalog.SearchRequest
	// Deleted records the names passed to delete operations, in call order.
	Deleted []string
}

var _ catalog.Service = (*Fake)(nil)

// New creates an empty fake catalog.
func New() *Fake {
	return &Fake{
		entries:       make(map[string]*datacatalog.Entry),
		groups:        make(map[string]*datacatalog.EntryGroup),
		templates:     make(map[string]*datacatalog.TagTemplate),
		tags:          make(map[string][]*datacatalog.Tag),
		calls:         make(map[string]int),
		failures:      make(map[string]error),
		SearchResults: make(map[string][]*datacatalog.SearchResult),
	}
}

// Fail makes every call of op on name return an error of the given kind.
// An empty name matches every call of op.
func (f *Fake) Fail(op, name string, kind errors.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op+"|"+name] = errors.NewCatalogError(op, "fake", name, kind, fmt.Errorf("injected %s", kind))
}

// Recover removes an injected failure.
func (f *Fake) Recover(op, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op+"|"+name)
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Writes returns the number of mutating calls made so far.
func (f *Fake) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, op := range writeOps {
		n += f.calls[op]
	}
	return n
}

// ResetCalls clears the call counters.
func (f *Fake) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
	f.Deleted = nil
}

// PutEntry stores an entry directly, bypassing call accounting.
func (f *Fake) PutEntry(entry *datacatalog.Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[entry.Name] = entry.Clone()
}

// PutTag stores a tag directly, bypassing call accounting. A name is assigned
// when the tag has none.
func (f *Fake) PutTag(entryName string, tag *datacatalog.Tag) *datacatalog.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := f.storeTag(entryName, tag)
	return cloneTag(stored)
}

// Entry returns a stored entry.
func (f *Fake) Entry(name string) (*datacatalog.Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[name]
	return e.Clone(), ok
}

// EntryNames returns the sorted names of stored entries.
func (f *Fake) EntryNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tags returns the tags stored on an entry.
func (f *Fake) Tags(entryName string) []*datacatalog.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*datacatalog.Tag, 0, len(f.tags[entryName]))
	for _, t := range f.tags[entryName] {
		out = append(out, cloneTag(t))
	}
	return out
}

// HasEntryGroup reports whether an entry group is stored.
func (f *Fake) HasEntryGroup(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.groups[name]
	return ok
}

// HasTagTemplate reports whether a tag template is stored.
func (f *Fake) HasTagTemplate(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.templates[name]
	return ok
}

// record counts the call and returns an injected failure, if any.
// Callers must hold f.mu.
func (f *Fake) record(op, name string) error {
	f.calls[op]++
	if err, ok := f.failures[op+"|"+name]; ok {
		return err
	}
	if err, ok := f.failures[op+"|"]; ok {
		return err
	}
	return nil
}

func notFound(op, resource, name string) error {
	return errors.NewCatalogError(op, resource, name, errors.KindNotFound, fmt.Errorf("%s %s not found", resource, name))
}

func alreadyExists(op, resource, name string) error {
	return errors.NewCatalogError(op, resource, name, errors.KindAlreadyExists, fmt.Errorf("%s %s already exists", resource, name))
}

// CreateEntry implements catalog.Service.
func (f *Fake) CreateEntry(_ context.Context, parent, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := datacatalog.EntryNameInGroup(parent, entryID)
	if err := f.record(OpCreateEntry, name); err != nil {
		return nil, err
	}
	if _, ok := f.entries[name]; ok {
		return nil, alreadyExists(OpCreateEntry, "entry", name)
	}
	stored := entry.Clone()
	stored.Name = name
	f.entries[name] = stored
	return stored.Clone(), nil
}

// GetEntry implements catalog.Service.
func (f *Fake) GetEntry(_ context.Context, name string) (*datacatalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpGetEntry, name); err != nil {
		return nil, err
	}
	e, ok := f.entries[name]
	if !ok {
		return nil, notFound(OpGetEntry, "entry", name)
	}
	return e.Clone(), nil
}

// UpdateEntry implements catalog.Service.
func (f *Fake) UpdateEntry(_ context.Context, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpUpdateEntry, entry.Name); err != nil {
		return nil, err
	}
	if _, ok := f.entries[entry.Name]; !ok {
		return nil, notFound(OpUpdateEntry, "entry", entry.Name)
	}
	f.entries[entry.Name] = entry.Clone()
	return entry.Clone(), nil
}

// DeleteEntry implements catalog.Service.
func (f *Fake) DeleteEntry(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDeleteEntry, name); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, name)
	if _, ok := f.entries[name]; !ok {
		return notFound(OpDeleteEntry, "entry", name)
	}
	delete(f.entries, name)
	delete(f.tags, name)
	return nil
}

// CreateEntryGroup implements catalog.Service.
func (f *Fake) CreateEntryGroup(_ context.Context, parent, entryGroupID string, group *datacatalog.EntryGroup) (*datacatalog.EntryGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := parent + "/entryGroups/" + entryGroupID
	if err := f.record(OpCreateEntryGroup, name); err != nil {
		return nil, err
	}
	if _, ok := f.groups[name]; ok {
		return nil, alreadyExists(OpCreateEntryGroup, "entry_group", name)
	}
	stored := *group
	stored.Name = name
	f.groups[name] = &stored
	out := stored
	return &out, nil
}

// DeleteEntryGroup implements catalog.Service. Groups that still hold
// entries cannot be deleted.
func (f *Fake) DeleteEntryGroup(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDeleteEntryGroup, name); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, name)
	for entryName := range f.entries {
		if strings.HasPrefix(entryName, name+"/entries/") {
			return errors.NewCatalogError(OpDeleteEntryGroup, "entry_group", name, errors.KindPreconditionFailed,
				fmt.Errorf("entry group %s is not empty", name))
		}
	}
	if _, ok := f.groups[name]; !ok {
		return notFound(OpDeleteEntryGroup, "entry_group", name)
	}
	delete(f.groups, name)
	return nil
}

// CreateTagTemplate implements catalog.Service.
func (f *Fake) CreateTagTemplate(_ context.Context, parent, templateID string, template *datacatalog.TagTemplate) (*datacatalog.TagTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := parent + "/tagTemplates/" + templateID
	if err := f.record(OpCreateTagTemplate, name); err != nil {
		return nil, err
	}
	if _, ok := f.templates[name]; ok {
		return nil, alreadyExists(OpCreateTagTemplate, "tag_template", name)
	}
	stored := *template
	stored.Name = name
	f.templates[name] = &stored
	out := stored
	return &out, nil
}

// GetTagTemplate implements catalog.Service.
func (f *Fake) GetTagTemplate(_ context.Context, name string) (*datacatalog.TagTemplate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpGetTagTemplate, name); err != nil {
		return nil, err
	}
	t, ok := f.templates[name]
	if !ok {
		return nil, notFound(OpGetTagTemplate, "tag_template", name)
	}
	out := *t
	return &out, nil
}

// DeleteTagTemplate implements catalog.Service. Forced deletion detaches the
// template's tags from every entry.
func (f *Fake) DeleteTagTemplate(_ context.Context, name string, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDeleteTagTemplate, name); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, name)
	if _, ok := f.templates[name]; !ok {
		return notFound(OpDeleteTagTemplate, "tag_template", name)
	}
	for _, tags := range f.tags {
		var kept []*datacatalog.Tag
		for _, t := range tags {
			if t.Template != name {
				kept = append(kept, t)
			}
		}
		if len(kept) != len(tags) && !force {
			return errors.NewCatalogError(OpDeleteTagTemplate, "tag_template", name, errors.KindPreconditionFailed,
				fmt.Errorf("tag template %s is in use", name))
		}
	}
	for entryName, tags := range f.tags {
		var kept []*datacatalog.Tag
		for _, t := range tags {
			if t.Template != name {
				kept = append(kept, t)
			}
		}
		f.tags[entryName] = kept
	}
	delete(f.templates, name)
	return nil
}

// CreateTag implements catalog.Service.
func (f *Fake) CreateTag(_ context.Context, parent string, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpCreateTag, parent); err != nil {
		return nil, err
	}
	if _, ok := f.entries[parent]; !ok {
		return nil, notFound(OpCreateTag, "entry", parent)
	}
	created := *tag
	created.Name = ""
	return cloneTag(f.storeTag(parent, &created)), nil
}

// UpdateTag implements catalog.Service.
func (f *Fake) UpdateTag(_ context.Context, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpUpdateTag, tag.Name); err != nil {
		return nil, err
	}
	for entryName, tags := range f.tags {
		for i, t := range tags {
			if t.Name == tag.Name {
				f.tags[entryName][i] = cloneTag(tag)
				return cloneTag(tag), nil
			}
		}
	}
	return nil, notFound(OpUpdateTag, "tag", tag.Name)
}

// DeleteTag implements catalog.Service.
func (f *Fake) DeleteTag(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpDeleteTag, name); err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, name)
	for entryName, tags := range f.tags {
		for i, t := range tags {
			if t.Name == name {
				f.tags[entryName] = append(tags[:i:i], tags[i+1:]...)
				return nil
			}
		}
	}
	return notFound(OpDeleteTag, "tag", name)
}

// ListTags implements catalog.Service.
func (f *Fake) ListTags(_ context.Context, parent string) ([]*datacatalog.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpListTags, parent); err != nil {
		return nil, err
	}
	out := make([]*datacatalog.Tag, 0, len(f.tags[parent]))
	for _, t := range f.tags[parent] {
		out = append(out, cloneTag(t))
	}
	return out, nil
}

// SearchCatalog implements catalog.Service.
func (f *Fake) SearchCatalog(_ context.Context, req datacatalog.SearchRequest) ([]*datacatalog.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(OpSearchCatalog, req.Query); err != nil {
		return nil, err
	}
	f.Searches = append(f.Searches, req)
	if results, ok := f.SearchResults[req.Query]; ok {
		return results, nil
	}
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	results := make([]*datacatalog.SearchResult, 0, len(names))
	for _, name := range names {
		e := f.entries[name]
		results = append(results, &datacatalog.SearchResult{
			RelativeResourceName: name,
			LinkedResource:       e.LinkedResource,
			SearchResultType:     "ENTRY",
			SearchResultSubtype:  e.UserSpecifiedType,
		})
	}
	return results, nil
}

// storeTag appends a tag to an entry. Callers must hold f.mu.
func (f *Fake) storeTag(entryName string, tag *datacatalog.Tag) *datacatalog.Tag {
	stored := cloneTag(tag)
	if stored.Name == "" {
		f.tagSeq++
		stored.Name = fmt.Sprintf("%s/tags/t%d", entryName, f.tagSeq)
	}
	f.tags[entryName] = append(f.tags[entryName], stored)
	return stored
}

func cloneTag(t *datacatalog.Tag) *datacatalog.Tag {
	c := *t
	if t.Fields != nil {
		c.Fields = make(map[string]datacatalog.TagField, len(t.Fields))
		for k, v := range t.Fields {
			c.Fields[k] = v
		}
	}
	return &c
}
