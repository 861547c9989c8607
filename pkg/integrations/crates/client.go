package crates

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/matzehuels/cratescore/pkg/buildinfo"
	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// Client provides access to the crates.io registry API.
//
// Responses are never cached: registry data is fetched fresh on every run
// so download counts stay current.
type Client struct {
	*integrations.Client

	// BaseURL is the API root. Defaults to [DefaultBaseURL].
	BaseURL string
}

// NewClient creates a crates.io client. Options are passed to the shared
// [integrations.Client].
func NewClient(opts ...integrations.Option) *Client {
	headers := map[string]string{
		"User-Agent": buildinfo.UserAgent(),
		"Accept":     "application/json",
	}
	return &Client{
		Client:  integrations.NewClient(headers, opts...),
		BaseURL: DefaultBaseURL,
	}
}

// FetchCrate retrieves the metadata record for one crate.
//
// When the crate object carries no license, the license of the newest
// published version is used.
//
// Returns:
//   - an INVALID_PACKAGE error if name is not a valid crate name
//   - [integrations.ErrNotFound] (wrapped) if the crate doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchCrate(ctx context.Context, name string) (*Crate, error) {
	if err := errs.ValidateCratesPackageName(name); err != nil {
		return nil, err
	}

	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.BaseURL, url.PathEscape(name)), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: crate %s", err, name)
		}
		return nil, err
	}

	krate := data.Crate
	if krate.License == "" && len(data.Versions) > 0 {
		krate.License = data.Versions[0].License
	}
	return &krate, nil
}
