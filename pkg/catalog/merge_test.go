package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations/crates"
	"github.com/matzehuels/cratescore/pkg/integrations/github"
)

// fakeRegistry returns copies of canned crates and counts calls.
type fakeRegistry struct {
	crates map[string]crates.Crate
	calls  int
}

func (f *fakeRegistry) FetchCrate(_ context.Context, name string) (*crates.Crate, error) {
	f.calls++
	c, ok := f.crates[name]
	if !ok {
		return nil, errors.New("crate not found")
	}
	return &c, nil
}

func newTestMerger(reg RegistryFetcher) *Merger {
	return NewMerger(reg, log.New(io.Discard))
}

func TestMergeRegistryValueWins(t *testing.T) {
	reg := &fakeRegistry{crates: map[string]crates.Crate{
		"tokio": {
			Name:          "tokio",
			License:       "MIT",
			Documentation: "https://docs.rs/tokio",
			Repository:    "https://github.com/tokio-rs/tokio",
			Description:   "registry description",
		},
	}}
	entry := RegistryEntry{
		Name:          "tokio",
		Topics:        []string{"asynchronous"},
		License:       "GPL-3.0",
		Documentation: "https://example.com/docs",
		Repository:    "https://github.com/fork/tokio",
		Description:   "override description",
	}

	g, err := newTestMerger(reg).Merge(context.Background(), entry)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	c := g.Crate
	if c.License != "MIT" || c.Documentation != "https://docs.rs/tokio" ||
		c.Repository != "https://github.com/tokio-rs/tokio" || c.Description != "registry description" {
		t.Errorf("override replaced a registry value: %+v", c)
	}
	if len(g.Topics) != 1 || g.Topics[0] != "asynchronous" {
		t.Errorf("topics = %v", g.Topics)
	}
}

func TestMergeOverrideFillsAbsence(t *testing.T) {
	reg := &fakeRegistry{crates: map[string]crates.Crate{"mavlink": {Name: "mavlink"}}}
	entry := RegistryEntry{
		Name:          "mavlink",
		License:       "MIT OR Apache-2.0",
		Documentation: "https://example.com/docs",
		Repository:    "https://github.com/mavlink/rust-mavlink",
		Description:   "MAVLink bindings",
	}

	g, err := newTestMerger(reg).Merge(context.Background(), entry)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	c := g.Crate
	if c.License != entry.License || c.Documentation != entry.Documentation ||
		c.Repository != entry.Repository || c.Description != entry.Description {
		t.Errorf("override not applied: %+v", c)
	}
}

func TestMergeSynthesizesDocsURL(t *testing.T) {
	reg := &fakeRegistry{crates: map[string]crates.Crate{"serde": {Name: "serde"}}}
	g, _ := newTestMerger(reg).Merge(context.Background(), RegistryEntry{Name: "serde"})
	if g.Crate.Documentation != "https://docs.rs/crate/serde" {
		t.Errorf("documentation = %q", g.Crate.Documentation)
	}
	if g.Topics == nil {
		t.Error("topics should be an empty list, not nil")
	}
}

func TestMergeFetchFailureKeepsEntry(t *testing.T) {
	reg := &fakeRegistry{}
	g, err := newTestMerger(reg).Merge(context.Background(), RegistryEntry{Name: "gone", Topics: []string{"x"}})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if g == nil || g.Crate != nil {
		t.Fatalf("expected entry without crate record, got %+v", g)
	}
	if len(g.Topics) != 1 {
		t.Errorf("topics = %v", g.Topics)
	}
}

func TestMergeUnnamedEntryDoesNotFetch(t *testing.T) {
	reg := &fakeRegistry{}
	g, err := newTestMerger(reg).Merge(context.Background(), RegistryEntry{Repository: "https://github.com/a/b"})
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if g.Crate != nil || reg.calls != 0 {
		t.Errorf("crate = %v, calls = %d; want no fetch", g.Crate, reg.calls)
	}
}

func TestMergeManualPassesThrough(t *testing.T) {
	reg := &fakeRegistry{}
	score := uint64(5)
	entry := ManualEntry{
		Topics: []string{"drones"},
		Score:  &score,
		Crate:  &crates.Crate{Name: "px4", Categories: []string{"aerospace"}},
		Repo:   &github.RepoData{Name: "px4/px4-rust", StargazersCount: 3},
	}

	g, err := newTestMerger(reg).Merge(context.Background(), entry)
	if err != nil {
		t.Fatalf("Merge() error: %v", err)
	}
	if reg.calls != 0 {
		t.Errorf("manual entry fetched %d times", reg.calls)
	}
	if g.ScoreValue() != 5 || g.Crate.Name != "px4" || g.Repo.StargazersCount != 3 {
		t.Errorf("merged = %+v", g)
	}

	// The generated entry owns its records.
	g.Crate.Categories[0] = "changed"
	g.Repo.StargazersCount = 99
	if entry.Crate.Categories[0] != "aerospace" || entry.Repo.StargazersCount != 3 {
		t.Error("generated entry shares records with the input entry")
	}
}

func TestMergeRejectsCategory(t *testing.T) {
	_, err := newTestMerger(&fakeRegistry{}).Merge(context.Background(), CategoryRequest{Name: "x"})
	if !errs.Is(err, errs.ErrCodeInternal) {
		t.Errorf("error = %v, want INTERNAL_ERROR", err)
	}
}

func TestCoalesce(t *testing.T) {
	tests := []struct{ primary, fallback, want string }{
		{"a", "b", "a"},
		{"", "b", "b"},
		{"a", "", "a"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := coalesce(tt.primary, tt.fallback); got != tt.want {
			t.Errorf("coalesce(%q, %q) = %q, want %q", tt.primary, tt.fallback, got, tt.want)
		}
	}
}
