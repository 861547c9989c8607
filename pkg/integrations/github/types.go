package github

import "time"

// RepoData is the activity summary for one GitHub repository. It is the
// "repo" object of a generated entry and may also be supplied by hand in a
// manual input entry.
type RepoData struct {
	// Name is the canonical "owner/repo" name.
	Name             string    `json:"name" yaml:"name"`
	StargazersCount  uint32    `json:"stargazers_count" yaml:"stargazers_count"`
	LastCommit       time.Time `json:"last_commit" yaml:"last_commit"`
	ContributorCount *uint32   `json:"contributor_count,omitempty" yaml:"contributor_count,omitempty"`
	OpenIssuesCount  *uint32   `json:"open_issues_count,omitempty" yaml:"open_issues_count,omitempty"`
}

// graphQLRequest is the POST body for the GraphQL endpoint.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Path    []any   `json:"path,omitempty"`
	Message *string `json:"message,omitempty"`
}

type totalCount struct {
	TotalCount *uint32 `json:"totalCount"`
}

// graphQLResponse is the raw response shape; it is also what the cache holds.
type graphQLResponse struct {
	Data *struct {
		Repository *struct {
			Stargazers    *totalCount `json:"stargazers"`
			Collaborators *totalCount `json:"collaborators"`
			Issues        *totalCount `json:"issues"`
			PushedAt      *time.Time  `json:"pushedAt"`
		} `json:"repository"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}
