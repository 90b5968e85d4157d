// Package datacatalog implements catalog.Service over the Data Catalog v1
// REST API.
package datacatalog

import (
	"context"

	dc "google.golang.org/api/datacatalog/v1"

	"github.com/agentstation/catalogsync/internal/gcp"
	"github.com/agentstation/catalogsync/pkg/catalog"
	"github.com/agentstation/catalogsync/pkg/constants"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/logging"
)

var _ catalog.Service = (*Client)(nil)

// Client is a catalog.Service backed by the Data Catalog API.
type Client struct {
	svc *dc.Service
}

// New creates a Data Catalog client.
func New(ctx context.Context, opts ...gcp.Option) (*Client, error) {
	clientOpts, err := gcp.ClientOptions(ctx, opts...)
	if err != nil {
		return nil, err
	}
	svc, err := dc.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, gcp.Wrap("create", "client", "", err)
	}
	return &Client{svc: svc}, nil
}

// CreateEntry creates an entry under an entry group.
func (c *Client) CreateEntry(ctx context.Context, parent, entryID string, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.Entries.
		Create(parent, entryToAPI(entry)).
		EntryId(entryID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("create", "entry", parent+"/entries/"+entryID, err)
	}
	return entryFromAPI(resp), nil
}

// GetEntry fetches an entry by resource name.
func (c *Client) GetEntry(ctx context.Context, name string) (*datacatalog.Entry, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.Entries.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, gcp.Wrap("get", "entry", name, err)
	}
	return entryFromAPI(resp), nil
}

// UpdateEntry overwrites every modifiable field of the named entry.
func (c *Client) UpdateEntry(ctx context.Context, entry *datacatalog.Entry) (*datacatalog.Entry, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.Entries.
		Patch(entry.Name, entryToAPI(entry)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("update", "entry", entry.Name, err)
	}
	return entryFromAPI(resp), nil
}

// DeleteEntry deletes an entry.
func (c *Client) DeleteEntry(ctx context.Context, name string) error {
	_, err := c.svc.Projects.Locations.EntryGroups.Entries.Delete(name).Context(ctx).Do()
	return gcp.Wrap("delete", "entry", name, err)
}

// CreateEntryGroup creates an entry group under a location.
func (c *Client) CreateEntryGroup(ctx context.Context, parent, entryGroupID string, group *datacatalog.EntryGroup) (*datacatalog.EntryGroup, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.
		Create(parent, entryGroupToAPI(group)).
		EntryGroupId(entryGroupID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("create", "entry_group", parent+"/entryGroups/"+entryGroupID, err)
	}
	return entryGroupFromAPI(resp), nil
}

// DeleteEntryGroup deletes an empty entry group.
func (c *Client) DeleteEntryGroup(ctx context.Context, name string) error {
	_, err := c.svc.Projects.Locations.EntryGroups.Delete(name).Context(ctx).Do()
	return gcp.Wrap("delete", "entry_group", name, err)
}

// CreateTagTemplate creates a tag template under a location.
func (c *Client) CreateTagTemplate(ctx context.Context, parent, templateID string, template *datacatalog.TagTemplate) (*datacatalog.TagTemplate, error) {
	resp, err := c.svc.Projects.Locations.TagTemplates.
		Create(parent, tagTemplateToAPI(template)).
		TagTemplateId(templateID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("create", "tag_template", parent+"/tagTemplates/"+templateID, err)
	}
	return tagTemplateFromAPI(resp), nil
}

// GetTagTemplate fetches a tag template.
func (c *Client) GetTagTemplate(ctx context.Context, name string) (*datacatalog.TagTemplate, error) {
	resp, err := c.svc.Projects.Locations.TagTemplates.Get(name).Context(ctx).Do()
	if err != nil {
		return nil, gcp.Wrap("get", "tag_template", name, err)
	}
	return tagTemplateFromAPI(resp), nil
}

// DeleteTagTemplate deletes a tag template. With force, tags using it are
// deleted too.
func (c *Client) DeleteTagTemplate(ctx context.Context, name string, force bool) error {
	_, err := c.svc.Projects.Locations.TagTemplates.Delete(name).Force(force).Context(ctx).Do()
	return gcp.Wrap("delete", "tag_template", name, err)
}

// CreateTag attaches a tag to an entry.
func (c *Client) CreateTag(ctx context.Context, parent string, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.Entries.Tags.
		Create(parent, tagToAPI(tag)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("create", "tag", parent, err)
	}
	return tagFromAPI(resp), nil
}

// UpdateTag overwrites the fields of the named tag.
func (c *Client) UpdateTag(ctx context.Context, tag *datacatalog.Tag) (*datacatalog.Tag, error) {
	resp, err := c.svc.Projects.Locations.EntryGroups.Entries.Tags.
		Patch(tag.Name, tagToAPI(tag)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, gcp.Wrap("update", "tag", tag.Name, err)
	}
	return tagFromAPI(resp), nil
}

// DeleteTag deletes a tag.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	_, err := c.svc.Projects.Locations.EntryGroups.Entries.Tags.Delete(name).Context(ctx).Do()
	return gcp.Wrap("delete", "tag", name, err)
}

// ListTags returns every tag of an entry.
func (c *Client) ListTags(ctx context.Context, parent string) ([]*datacatalog.Tag, error) {
	var (
		tags      []*datacatalog.Tag
		pageToken string
	)
	for {
		call := c.svc.Projects.Locations.EntryGroups.Entries.Tags.List(parent).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, gcp.Wrap("list", "tag", parent, err)
		}
		for _, t := range resp.Tags {
			tags = append(tags, tagFromAPI(t))
		}
		if resp.NextPageToken == "" {
			return tags, nil
		}
		pageToken = resp.NextPageToken
	}
}

// SearchCatalog runs a catalog search and drains every result page.
func (c *Client) SearchCatalog(ctx context.Context, req datacatalog.SearchRequest) ([]*datacatalog.SearchResult, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = constants.SearchPageSize
	}
	body := &dc.GoogleCloudDatacatalogV1SearchCatalogRequest{
		Query:    req.Query,
		PageSize: int64(pageSize),
		OrderBy:  req.OrderBy,
		Scope: &dc.GoogleCloudDatacatalogV1SearchCatalogRequestScope{
			IncludeProjectIds: req.ProjectIDs,
		},
	}

	var results []*datacatalog.SearchResult
	for page := 1; ; page++ {
		resp, err := c.svc.Catalog.Search(body).Context(ctx).Do()
		if err != nil {
			return nil, gcp.Wrap("search", "catalog", req.Query, err)
		}
		for _, r := range resp.Results {
			results = append(results, searchResultFromAPI(r))
		}
		logging.FromContext(ctx).Debug().
			Str("query", req.Query).
			Int("page", page).
			Int("results", len(resp.Results)).
			Msg("Search page fetched")
		if resp.NextPageToken == "" {
			return results, nil
		}
		body.PageToken = resp.NextPageToken
	}
}
