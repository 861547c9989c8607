package crates

import "time"

// Crate is the crates.io metadata record for one crate. It is the
// "meta" object of a generated entry and the "crate" object of a manual
// input entry, so the same shape round-trips through JSON and YAML.
//
// Optional fields use omitempty; an absent value and an empty string are
// treated alike by the merge step.
type Crate struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Description     string    `json:"description,omitempty" yaml:"description,omitempty"`
	License         string    `json:"license,omitempty" yaml:"license,omitempty"`
	Documentation   string    `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Homepage        string    `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Repository      string    `json:"repository,omitempty" yaml:"repository,omitempty"`
	Downloads       uint64    `json:"downloads" yaml:"downloads"`
	RecentDownloads *uint64   `json:"recent_downloads,omitempty" yaml:"recent_downloads,omitempty"`
	Categories      []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Keywords        []string  `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Versions        []uint64  `json:"versions,omitempty" yaml:"versions,omitempty"`
	MaxVersion      string    `json:"max_version" yaml:"max_version"`
	Links           Links     `json:"links" yaml:"links"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" yaml:"updated_at"`
	ExactMatch      *bool     `json:"exact_match,omitempty" yaml:"exact_match,omitempty"`
}

// Links are the API paths crates.io advertises for a crate.
type Links struct {
	OwnerTeam           string `json:"owner_team" yaml:"owner_team"`
	OwnerUser           string `json:"owner_user" yaml:"owner_user"`
	Owners              string `json:"owners" yaml:"owners"`
	ReverseDependencies string `json:"reverse_dependencies" yaml:"reverse_dependencies"`
	VersionDownloads    string `json:"version_downloads" yaml:"version_downloads"`
	Versions            string `json:"versions,omitempty" yaml:"versions,omitempty"`
}

// Unknown fills fields that a source cannot supply but the record shape
// requires.
const Unknown = "unknown"

// UnknownLinks returns a Links value with every required path set to
// [Unknown].
func UnknownLinks() Links {
	return Links{
		OwnerTeam:           Unknown,
		OwnerUser:           Unknown,
		Owners:              Unknown,
		ReverseDependencies: Unknown,
		VersionDownloads:    Unknown,
	}
}

// RecentDownloadCount returns the windowed download count, or 0 if unknown.
func (c *Crate) RecentDownloadCount() uint64 {
	if c == nil || c.RecentDownloads == nil {
		return 0
	}
	return *c.RecentDownloads
}

type crateResponse struct {
	Crate    Crate `json:"crate"`
	Versions []struct {
		ID      uint64 `json:"id"`
		Num     string `json:"num"`
		License string `json:"license"`
	} `json:"versions"`
}
