package github

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cratescore/pkg/buildinfo"
	"github.com/matzehuels/cratescore/pkg/cache"
	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations"
)

// DefaultEndpoint is the GitHub GraphQL API endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// CacheNamespace is the cache namespace holding raw GraphQL responses.
const CacheNamespace = "github"

const repoQuery = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    stargazers {
      totalCount
    }
    collaborators {
      totalCount
    }
    issues(states: OPEN) {
      totalCount
    }
    pushedAt
  }
}`

// Client fetches repository activity from the GitHub GraphQL API. Raw
// responses are kept in a [cache.Cache] so later runs can replay them.
type Client struct {
	*integrations.Client

	// Endpoint is the GraphQL URL. Defaults to [DefaultEndpoint].
	Endpoint string

	cache cache.Cache
}

// NewClient creates a GitHub client authenticated with token. The GraphQL
// API does not accept anonymous requests, so an empty token is a
// MISSING_CREDENTIAL error. Pass [cache.NewNullCache] to disable caching.
func NewClient(token string, c cache.Cache, opts ...integrations.Option) (*Client, error) {
	if token == "" {
		return nil, errs.New(errs.ErrCodeMissingCredential, "GitHub token has not been set")
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"User-Agent":    buildinfo.UserAgent(),
	}
	return &Client{
		Client:   integrations.NewClient(headers, opts...),
		cache:    c,
		Endpoint: DefaultEndpoint,
	}, nil
}

// CacheKey returns the cache key for a repository: "owner--repo".
func CacheKey(owner, repo string) string {
	return owner + "--" + repo
}

// RepoData returns stars, last push time, collaborator count and open issue
// count for owner/repo.
//
// A cached response is used when present and decodable; otherwise one
// GraphQL query is issued and its raw body written to the cache. Responses
// carrying an error list are not cached and yield an UPSTREAM error with the
// first reported message.
func (c *Client) RepoData(ctx context.Context, owner, repo string) (*RepoData, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidRepoURL, err, "github repo %s/%s", owner, repo)
	}

	name := owner + "/" + repo
	key := CacheKey(owner, repo)

	fetch := func() ([]byte, error) { return c.query(ctx, owner, repo) }

	raw, hit, err := integrations.Cached(ctx, c.cache, CacheNamespace, key, fetch)
	if err != nil {
		return nil, err
	}
	data, err := parseRepoData(name, raw)
	if err == nil || !hit {
		return data, err
	}

	// Undecodable cache entry: refetch and overwrite it.
	if raw, err = fetch(); err != nil {
		return nil, err
	}
	_ = c.cache.Set(ctx, CacheNamespace, key, raw)
	return parseRepoData(name, raw)
}

// query posts the repository query and returns the raw body, or an error if
// the transport failed or GitHub reported errors.
func (c *Client) query(ctx context.Context, owner, repo string) ([]byte, error) {
	raw, err := c.PostJSON(ctx, c.Endpoint, graphQLRequest{
		Query:     repoQuery,
		Variables: map[string]any{"owner": owner, "name": repo},
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "github query %s/%s", owner, repo)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errs.Wrap(errs.ErrCodeUpstream, err, "decode github response")
	}
	if len(resp.Errors) > 0 {
		msg := "unknown error"
		if m := resp.Errors[0].Message; m != nil {
			msg = *m
		}
		return nil, errs.New(errs.ErrCodeUpstream, "%s", msg)
	}
	return raw, nil
}

// parseRepoData decodes a raw GraphQL body. Stars and push time are
// required; collaborator and issue counts may be null.
func parseRepoData(name string, raw []byte) (*RepoData, error) {
	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errs.Wrap(errs.ErrCodeUpstream, err, "decode github response")
	}
	if resp.Data == nil || resp.Data.Repository == nil {
		return nil, errs.New(errs.ErrCodeUpstream, "github response has no repository for %s", name)
	}
	r := resp.Data.Repository
	if r.Stargazers == nil || r.Stargazers.TotalCount == nil {
		return nil, errs.New(errs.ErrCodeUpstream, "github response for %s: missing stargazers count", name)
	}
	if r.PushedAt == nil {
		return nil, errs.New(errs.ErrCodeUpstream, "github response for %s: missing pushedAt", name)
	}

	data := &RepoData{
		Name:            name,
		StargazersCount: *r.Stargazers.TotalCount,
		LastCommit:      r.PushedAt.UTC(),
	}
	if r.Collaborators != nil {
		data.ContributorCount = r.Collaborators.TotalCount
	}
	if r.Issues != nil {
		data.OpenIssuesCount = r.Issues.TotalCount
	}
	return data, nil
}

// String implements fmt.Stringer for log output.
func (d *RepoData) String() string {
	return fmt.Sprintf("%s (%d stars)", d.Name, d.StargazersCount)
}
