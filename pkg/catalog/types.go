package catalog

import (
	"fmt"

	"github.com/matzehuels/cratescore/pkg/integrations/crates"
	"github.com/matzehuels/cratescore/pkg/integrations/github"
)

// Input entry kinds as written in the input document.
const (
	KindRegistry = "crates-io"
	KindManual   = "manual"
	KindCategory = "category"
)

// InputEntry is one entry of the input document. The set of implementations
// is closed: [RegistryEntry], [ManualEntry] and [CategoryRequest].
type InputEntry interface {
	// Kind returns the entry's kind tag.
	Kind() string
	// Describe returns the label used in progress logs.
	Describe() string

	isInputEntry()
}

// RegistryEntry names a crate to fetch from crates.io. The override fields
// are used only where crates.io has no value.
type RegistryEntry struct {
	Name   string   `yaml:"name,omitempty"`
	Topics []string `yaml:"topics"`

	Documentation string `yaml:"documentation,omitempty"`
	Repository    string `yaml:"repository,omitempty"`
	License       string `yaml:"license,omitempty"`
	Description   string `yaml:"description,omitempty"`
}

// ManualEntry is a hand-curated entry, or one synthesized from the
// crates.io database dump. Nothing is fetched for it from crates.io.
type ManualEntry struct {
	Topics []string         `yaml:"topics"`
	Score  *uint64          `yaml:"score,omitempty"`
	Crate  *crates.Crate    `yaml:"crate,omitempty"`
	Repo   *github.RepoData `yaml:"repo,omitempty"`
}

// CategoryRequest asks for every crate in a crates.io category (matched on
// the category's name, e.g. "aerospace::drones").
type CategoryRequest struct {
	Name string `yaml:"name"`
}

func (RegistryEntry) isInputEntry()   {}
func (ManualEntry) isInputEntry()     {}
func (CategoryRequest) isInputEntry() {}

func (RegistryEntry) Kind() string   { return KindRegistry }
func (ManualEntry) Kind() string     { return KindManual }
func (CategoryRequest) Kind() string { return KindCategory }

// Describe returns "<name> from crates.io", or "<repository> from source code
// repository" for unnamed entries. Entries with neither are labelled invalid
// but still processed.
func (e RegistryEntry) Describe() string {
	switch {
	case e.Name != "":
		return e.Name + " from crates.io"
	case e.Repository != "":
		return e.Repository + " from source code repository"
	default:
		return fmt.Sprintf("Invalid entry: %+v", e)
	}
}

// Describe returns "<name> from populated manually", taking the name from the
// crate record, then the repository record.
func (e ManualEntry) Describe() string {
	name := "unknown crate name"
	switch {
	case e.Crate != nil:
		name = e.Crate.Name
	case e.Repo != nil:
		name = e.Repo.Name
	}
	return name + " from populated manually"
}

func (e CategoryRequest) Describe() string {
	return "category " + e.Name
}

// GeneratedEntry is one entry of the output dataset.
type GeneratedEntry struct {
	Topics []string `json:"topics" yaml:"topics"`
	// Score is nil until the entry has been scored.
	Score *uint64          `json:"score" yaml:"score"`
	Crate *crates.Crate    `json:"meta,omitempty" yaml:"meta,omitempty"`
	Repo  *github.RepoData `json:"repo,omitempty" yaml:"repo,omitempty"`
}

// Name returns the crate name, the repository name, or "" when the entry has
// neither.
func (g *GeneratedEntry) Name() string {
	switch {
	case g.Crate != nil:
		return g.Crate.Name
	case g.Repo != nil:
		return g.Repo.Name
	}
	return ""
}

// ScoreValue returns the score, or 0 for an unscored entry.
func (g *GeneratedEntry) ScoreValue() uint64 {
	if g.Score == nil {
		return 0
	}
	return *g.Score
}

// HasTopic reports whether topic is among the entry's topics.
func (g *GeneratedEntry) HasTopic(topic string) bool {
	for _, t := range g.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
