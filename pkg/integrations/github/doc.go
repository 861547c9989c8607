// Package github fetches repository activity from the GitHub GraphQL API.
//
// # Usage
//
//	client, err := github.NewClient(os.Getenv("GITHUB_TOKEN"), fileCache)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	owner, repo, ok, err := github.ResolveRepoURL(krate.Repository)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ok {
//	    data, err := client.RepoData(ctx, owner, repo)
//	    ...
//	}
//
// # RepoData
//
// [Client.RepoData] issues one query per repository and returns a
// [RepoData] with:
//
//   - Name: "owner/repo"
//   - StargazersCount: stargazer count
//   - LastCommit: time of the last push
//   - ContributorCount: collaborator count (nil when GitHub withholds it)
//   - OpenIssuesCount: open issue count
//
// # Caching
//
// Raw GraphQL response bodies are stored in namespace [CacheNamespace]
// under "owner--repo" and never expire. Delete the cache entry (or run
// "cratescore cache clear") to refetch. Error responses are not cached.
//
// # Authentication
//
// The GraphQL API requires a token; [NewClient] returns a
// MISSING_CREDENTIAL error without one.
package github
