package github

import (
	"net/url"
	"strings"

	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations"
)

// Host is the only repository host whose metadata is fetched.
const Host = "github.com"

// ResolveRepoURL extracts owner and repo from a GitHub repository URL.
//
// URLs on other hosts return ok=false with no error. The path is split on
// both '/' and '.', so a trailing ".git" is dropped (as is anything after
// the first dot in the repository name). A GitHub URL without an owner and
// a repository segment, or one that does not parse, is an INVALID_REPO_URL
// error.
func ResolveRepoURL(raw string) (owner, repo string, ok bool, err error) {
	u, err := url.Parse(integrations.NormalizeRepoURL(raw))
	if err != nil {
		return "", "", false, errs.Wrap(errs.ErrCodeInvalidRepoURL, err, "repository URL %q", raw)
	}
	if !strings.EqualFold(u.Hostname(), Host) {
		return "", "", false, nil
	}

	parts := splitPath(u.Path)
	if len(parts) < 3 {
		return "", "", false, errs.New(errs.ErrCodeInvalidRepoURL, "repository URL %q: expected https://github.com/<owner>/<repo>", raw)
	}
	return parts[1], parts[2], true, nil
}

// splitPath splits p on '/' and '.', keeping empty segments, so
// "/owner/repo.git" yields ["", "owner", "repo", "git"].
func splitPath(p string) []string {
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		parts = append(parts, strings.Split(seg, ".")...)
	}
	return parts
}
