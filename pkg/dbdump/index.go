package dbdump

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/matzehuels/cratescore/pkg/catalog"
	errs "github.com/matzehuels/cratescore/pkg/errors"
	"github.com/matzehuels/cratescore/pkg/integrations/crates"
)

// Index links categories and crates in both directions. It is read-only
// once built.
type Index struct {
	snapshot *Snapshot

	// CategoryCrates maps a category id to its crate ids, in link order.
	CategoryCrates map[uint64][]uint64
	// CrateCategories maps a crate id to its category ids, in link order.
	CrateCategories map[uint64][]uint64
}

// BuildIndex builds both mappings in one pass over the link rows.
func BuildIndex(s *Snapshot) *Index {
	ix := &Index{
		snapshot:        s,
		CategoryCrates:  make(map[uint64][]uint64),
		CrateCategories: make(map[uint64][]uint64),
	}
	for _, l := range s.Links {
		ix.CategoryCrates[l.CategoryID] = append(ix.CategoryCrates[l.CategoryID], l.CrateID)
		ix.CrateCategories[l.CrateID] = append(ix.CrateCategories[l.CrateID], l.CategoryID)
	}
	return ix
}

// Categories returns the categories whose name is in requested, ordered by
// id. Unknown names are ignored.
func (ix *Index) Categories(requested []string) []CategoryRow {
	var out []CategoryRow
	for _, c := range ix.snapshot.Categories {
		if slices.Contains(requested, c.Category) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b CategoryRow) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// ExpandCategory synthesizes one manual entry per crate linked to cat.
// Each entry's topics are the descriptions of all of that crate's
// categories, not only cat. A link to a crate or category missing from the
// snapshot is a SNAPSHOT_INCONSISTENT error.
func (ix *Index) ExpandCategory(cat CategoryRow) ([]catalog.ManualEntry, error) {
	ids := ix.CategoryCrates[cat.ID]
	entries := make([]catalog.ManualEntry, 0, len(ids))
	for _, id := range ids {
		row, ok := ix.snapshot.Crates[id]
		if !ok {
			return nil, errs.New(errs.ErrCodeSnapshotInconsistent,
				"category %s links crate %d, which is not in the snapshot", cat.Category, id)
		}
		topics, err := ix.crateTopics(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, catalog.ManualEntry{
			Topics: topics,
			Crate:  crateRecord(row, topics),
		})
	}
	return entries, nil
}

// Expand expands every requested category, in [Index.Categories] order.
// A crate in several requested categories appears once per category.
func (ix *Index) Expand(requested []string) ([]catalog.ManualEntry, error) {
	var out []catalog.ManualEntry
	for _, cat := range ix.Categories(requested) {
		entries, err := ix.ExpandCategory(cat)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func (ix *Index) crateTopics(crateID uint64) ([]string, error) {
	catIDs := ix.CrateCategories[crateID]
	topics := make([]string, 0, len(catIDs))
	for _, catID := range catIDs {
		c, ok := ix.snapshot.Categories[catID]
		if !ok {
			return nil, errs.New(errs.ErrCodeSnapshotInconsistent,
				"crate %d links category %d, which is not in the snapshot", crateID, catID)
		}
		topics = append(topics, c.Description)
	}
	return topics, nil
}

// crateRecord translates a dump row into the registry record shape. Fields
// the dump does not carry get [crates.Unknown] where the shape requires a
// value and stay empty otherwise.
func crateRecord(row CrateRow, categories []string) *crates.Crate {
	return &crates.Crate{
		ID:            strconv.FormatUint(row.ID, 10),
		Name:          row.Name,
		Description:   row.Description,
		Documentation: row.Documentation,
		Homepage:      row.Homepage,
		Repository:    row.Repository,
		Downloads:     row.Downloads,
		Categories:    slices.Clone(categories),
		MaxVersion:    crates.Unknown,
		Links:         crates.UnknownLinks(),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
