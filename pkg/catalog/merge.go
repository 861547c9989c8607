package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations/crates"
	"github.com/matzehuels/cratescore/pkg/observability"
)

// DocsURLTemplate builds the documentation URL for crates that declare none.
const DocsURLTemplate = "https://docs.rs/crate/%s"

// RegistryFetcher fetches one crate's registry record.
// [crates.Client] implements it.
type RegistryFetcher interface {
	FetchCrate(ctx context.Context, name string) (*crates.Crate, error)
}

// Merger turns input entries into generated entries.
type Merger struct {
	Registry RegistryFetcher
	Logger   *log.Logger
}

// NewMerger creates a Merger. A nil logger uses log.Default().
func NewMerger(registry RegistryFetcher, logger *log.Logger) *Merger {
	if logger == nil {
		logger = log.Default()
	}
	return &Merger{Registry: registry, Logger: logger}
}

// Merge produces the generated entry for one input entry.
//
// Manual entries are copied through without fetching. Registry entries are
// fetched from crates.io and their override fields fill what crates.io
// leaves empty. A failed fetch is logged and leaves the crate record absent;
// it is not returned as an error.
//
// Category requests cannot be merged; they must be expanded first.
func (m *Merger) Merge(ctx context.Context, entry InputEntry) (*GeneratedEntry, error) {
	switch e := entry.(type) {
	case ManualEntry:
		return mergeManual(e), nil
	case RegistryEntry:
		return m.mergeRegistry(ctx, e), nil
	case CategoryRequest:
		return nil, errs.New(errs.ErrCodeInternal, "category %q must be expanded before merging", e.Name)
	default:
		return nil, errs.New(errs.ErrCodeInternal, "unsupported input entry %T", entry)
	}
}

func mergeManual(e ManualEntry) *GeneratedEntry {
	g := &GeneratedEntry{Topics: topics(e.Topics)}
	if e.Score != nil {
		s := *e.Score
		g.Score = &s
	}
	if e.Crate != nil {
		c := *e.Crate
		c.Categories = slices.Clone(c.Categories)
		c.Keywords = slices.Clone(c.Keywords)
		c.Versions = slices.Clone(c.Versions)
		g.Crate = &c
	}
	if e.Repo != nil {
		r := *e.Repo
		g.Repo = &r
	}
	return g
}

func (m *Merger) mergeRegistry(ctx context.Context, e RegistryEntry) *GeneratedEntry {
	g := &GeneratedEntry{Topics: topics(e.Topics)}
	if e.Name == "" {
		return g
	}

	krate, err := m.Registry.FetchCrate(ctx, e.Name)
	if err != nil {
		m.Logger.Warn("Error getting crate data", "crate", e.Name, "err", err)
		observability.Pipeline().OnFetchFailed(ctx, "crates.io", e.Name, err)
		return g
	}

	krate.License = coalesce(krate.License, e.License)
	krate.Documentation = coalesce(krate.Documentation, e.Documentation)
	if krate.Documentation == "" {
		krate.Documentation = fmt.Sprintf(DocsURLTemplate, krate.Name)
	}
	krate.Repository = coalesce(krate.Repository, e.Repository)
	krate.Description = coalesce(krate.Description, e.Description)

	g.Crate = krate
	return g
}

// coalesce returns primary unless it is empty, in which case fallback.
func coalesce(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}

// topics returns a copy of t that is never nil, so an entry without topics
// serializes as an empty list.
func topics(t []string) []string {
	if t == nil {
		return []string{}
	}
	return slices.Clone(t)
}
