package datacatalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/agentstation/catalogsync/internal/gcp"
	"github.com/agentstation/catalogsync/pkg/datacatalog"
	"github.com/agentstation/catalogsync/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), gcp.WithClientOptions(
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	))
	require.NoError(t, err)
	return c
}

func writeError(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": strings.ToLower(status), "status": status},
	})
}

func TestGetEntryClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		status string
		want   errors.Kind
	}{
		{"not found", http.StatusNotFound, "NOT_FOUND", errors.KindNotFound},
		{"permission denied", http.StatusForbidden, "PERMISSION_DENIED", errors.KindNotFound},
		{"already exists", http.StatusConflict, "ALREADY_EXISTS", errors.KindAlreadyExists},
		{"failed precondition", http.StatusBadRequest, "FAILED_PRECONDITION", errors.KindPreconditionFailed},
		{"invalid argument", http.StatusBadRequest, "INVALID_ARGUMENT", errors.KindUnknown},
		{"internal", http.StatusInternalServerError, "INTERNAL", errors.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeError(w, tt.code, tt.status)
			})

			_, err := c.GetEntry(context.Background(), "projects/p/locations/us/entryGroups/g/entries/e")
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.KindOf(err))

			var ce *errors.CatalogError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, "get", ce.Op)
			assert.Equal(t, "entry", ce.Resource)
		})
	}
}

func TestGetEntry(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/projects/p/locations/us/entryGroups/g/entries/e"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "projects/p/locations/us/entryGroups/g/entries/e",
			"userSpecifiedType": "table",
			"userSpecifiedSystem": "sqlserver",
			"displayName": "orders",
			"sourceSystemTimestamps": {"updateTime": "2024-01-02T03:04:05.123Z"},
			"schema": {"columns": [{"column": "id", "type": "int", "subcolumns": [{"column": "x", "type": "int"}]}]}
		}`))
	})

	entry, err := c.GetEntry(context.Background(), "projects/p/locations/us/entryGroups/g/entries/e")
	require.NoError(t, err)
	assert.Equal(t, "orders", entry.DisplayName)
	assert.Equal(t, "sqlserver", entry.UserSpecifiedSystem)
	assert.Equal(t, int64(1704164645), entry.UpdateTimeSeconds())
	require.Len(t, entry.Schema.Columns, 1)
	assert.Equal(t, "x", entry.Schema.Columns[0].Subcolumns[0].Column)
}

func TestCreateEntrySendsEntryID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "orders", r.URL.Query().Get("entryId"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "orders", body["displayName"])

		w.Header().Set("Content-Type", "application/json")
		body["name"] = "projects/p/locations/us/entryGroups/g/entries/orders"
		_ = json.NewEncoder(w).Encode(body)
	})

	entry, err := c.CreateEntry(context.Background(), "projects/p/locations/us/entryGroups/g", "orders",
		&datacatalog.Entry{DisplayName: "orders", UserSpecifiedType: "table"})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/us/entryGroups/g/entries/orders", entry.Name)
}

func TestListTagsDrainsPages(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{"tags": [{"name": "t1", "template": "tmpl", "fields": {"n": {"doubleValue": 3}}}], "nextPageToken": "next"}`))
			return
		}
		_, _ = w.Write([]byte(`{"tags": [{"name": "t2", "template": "tmpl", "column": "id", "fields": {"k": {"enumValue": {"displayName": "TABLE"}}}}]}`))
	})

	tags, err := c.ListTags(context.Background(), "projects/p/locations/us/entryGroups/g/entries/e")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, tags, 2)
	assert.Equal(t, datacatalog.DoubleField(3), tags[0].Fields["n"])
	assert.Equal(t, datacatalog.EnumField("TABLE"), tags[1].Fields["k"])
	assert.Equal(t, "id", tags[1].Column)
}

func TestSearchCatalogDrainsPages(t *testing.T) {
	var tokens []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string `json:"query"`
			PageSize  int    `json:"pageSize"`
			PageToken string `json:"pageToken"`
			Scope     struct {
				IncludeProjectIds []string `json:"includeProjectIds"`
			} `json:"scope"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "system=sqlserver", body.Query)
		assert.Equal(t, 1000, body.PageSize)
		assert.Equal(t, []string{"p"}, body.Scope.IncludeProjectIds)
		tokens = append(tokens, body.PageToken)

		w.Header().Set("Content-Type", "application/json")
		if body.PageToken == "" {
			_, _ = w.Write([]byte(`{"results": [{"relativeResourceName": "a"}], "nextPageToken": "p2"}`))
			return
		}
		_, _ = w.Write([]byte(`{"results": [{"relativeResourceName": "b", "searchResultType": "ENTRY"}]}`))
	})

	results, err := c.SearchCatalog(context.Background(), datacatalog.SearchRequest{
		Query:      "system=sqlserver",
		ProjectIDs: []string{"p"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "p2"}, tokens)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].RelativeResourceName)
	assert.Equal(t, "ENTRY", results[1].SearchResultType)
}

func TestDeleteTagTemplateForce(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "true", r.URL.Query().Get("force"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.DeleteTagTemplate(context.Background(), "projects/p/locations/us/tagTemplates/t", true))
}
