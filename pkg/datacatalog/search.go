package datacatalog

// SearchRequest is a catalog search scoped to a set of projects.
type SearchRequest struct {
	Query      string
	ProjectIDs []string
	PageSize   int
	OrderBy    string
}

// SearchResult is one catalog search hit.
type SearchResult struct {
	RelativeResourceName string `json:"relative_resource_name" yaml:"relative_resource_name"`
	LinkedResource       string `json:"linked_resource,omitempty" yaml:"linked_resource,omitempty"`
	SearchResultType     string `json:"search_result_type,omitempty" yaml:"search_result_type,omitempty"`
	SearchResultSubtype  string `json:"search_result_subtype,omitempty" yaml:"search_result_subtype,omitempty"`
}
