package github

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// Logins: 1-39 alphanumerics or hyphens, not starting with a hyphen.
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// Repository names: 1-100 alphanumerics, hyphens, underscores or dots.
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateRepoRef checks that owner and repo are usable as GraphQL
// variables and as a cache key. The returned error names the bad part.
func ValidateRepoRef(owner, repo string) error {
	switch {
	case owner == "":
		return errors.New("empty owner")
	case !validOwner.MatchString(owner):
		return fmt.Errorf("invalid owner %q", owner)
	case repo == "":
		return errors.New("empty repository name")
	case !validRepo.MatchString(repo):
		return fmt.Errorf("invalid repository name %q", repo)
	}
	return nil
}
