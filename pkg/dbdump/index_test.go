package dbdump

import (
	"bytes"
	"slices"
	"testing"

	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations/crates"
)

func loadIndex(t *testing.T) *Index {
	t.Helper()
	s, err := Read(bytes.NewReader(fullDump(t)))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return BuildIndex(s)
}

func TestBuildIndex(t *testing.T) {
	ix := loadIndex(t)

	if got := ix.CategoryCrates[2]; !slices.Equal(got, []uint64{10, 11}) {
		t.Errorf("category 2 crates = %v, want [10 11]", got)
	}
	if got := ix.CrateCategories[10]; !slices.Equal(got, []uint64{2, 1}) {
		t.Errorf("crate 10 categories = %v, want [2 1]", got)
	}
	if got := ix.CrateCategories[12]; !slices.Equal(got, []uint64{3}) {
		t.Errorf("crate 12 categories = %v, want [3]", got)
	}
}

func TestExpand(t *testing.T) {
	ix := loadIndex(t)

	entries, err := ix.Expand([]string{"Aerospace::Drones"})
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	mav := entries[0]
	if mav.Crate.Name != "mavlink" {
		t.Fatalf("first entry = %s, want mavlink", mav.Crate.Name)
	}
	// Topics cover every category of the crate, not only the requested one.
	if !slices.Equal(mav.Topics, []string{"Crates for drones.", "Crates for aerospace."}) {
		t.Errorf("topics = %v", mav.Topics)
	}
	if !slices.Equal(mav.Crate.Categories, mav.Topics) {
		t.Errorf("categories = %v, want topics", mav.Crate.Categories)
	}
	if mav.Crate.ID != "10" || mav.Crate.Downloads != 52000 || mav.Crate.Description != "MAVLink bindings" {
		t.Errorf("crate = %+v", mav.Crate)
	}
	if mav.Crate.MaxVersion != crates.Unknown || mav.Crate.Links != crates.UnknownLinks() {
		t.Errorf("placeholders not set: %q %+v", mav.Crate.MaxVersion, mav.Crate.Links)
	}
	if mav.Crate.RecentDownloads != nil || mav.Crate.License != "" {
		t.Error("fields the dump lacks should stay absent")
	}
	if mav.Score != nil || mav.Repo != nil {
		t.Error("synthesized entries carry no score or repository record")
	}

	if px4 := entries[1].Crate; px4.Name != "px4" || px4.Homepage != "https://px4.io" || px4.Documentation != "https://docs.rs/px4" {
		t.Errorf("second crate = %+v", px4)
	}
}

func TestExpandOrderAndDuplicates(t *testing.T) {
	ix := loadIndex(t)

	// Requested order does not matter; categories are expanded by id.
	entries, err := ix.Expand([]string{"Asynchronous", "Aerospace::Drones", "Aerospace", "Nope"})
	if err != nil {
		t.Fatalf("Expand() error: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Crate.Name)
	}
	want := []string{"mavlink", "mavlink", "px4", "tokio"}
	if !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestExpandMatchesCategoryName(t *testing.T) {
	ix := loadIndex(t)
	entries, err := ix.Expand([]string{"Crates for drones.", "drones"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("matched on description or slug: %d entries", len(entries))
	}
}

func TestExpandDanglingCrate(t *testing.T) {
	s, _ := Read(bytes.NewReader(fullDump(t)))
	s.Links = append(s.Links, LinkRow{CategoryID: 2, CrateID: 99})
	_, err := BuildIndex(s).Expand([]string{"Aerospace::Drones"})
	if !errs.Is(err, errs.ErrCodeSnapshotInconsistent) {
		t.Errorf("error = %v, want SNAPSHOT_INCONSISTENT", err)
	}
}

func TestExpandDanglingCategory(t *testing.T) {
	s, _ := Read(bytes.NewReader(fullDump(t)))
	s.Links = append(s.Links, LinkRow{CategoryID: 42, CrateID: 11})
	_, err := BuildIndex(s).Expand([]string{"Aerospace::Drones"})
	if !errs.Is(err, errs.ErrCodeSnapshotInconsistent) {
		t.Errorf("error = %v, want SNAPSHOT_INCONSISTENT", err)
	}
}
