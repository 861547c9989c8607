package dbdump

import (
	"archive/tar"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Europe/London must resolve on hosts without zoneinfo

	"github.com/klauspost/compress/gzip"

	errs "github.com/matzehuels/cratescore/pkg/errors"
)

// CrateRow is the subset of a crates.csv row used for expansion.
type CrateRow struct {
	ID            uint64
	Name          string
	Description   string
	Documentation string
	Homepage      string
	Repository    string
	Downloads     uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryRow is one categories.csv row. Category is the machine name
// ("aerospace::drones"); Description is the human-readable text.
type CategoryRow struct {
	ID          uint64
	Category    string
	Slug        string
	Description string
	Path        string
	CratesCnt   uint64
}

// LinkRow is one crates_categories.csv row.
type LinkRow struct {
	CategoryID uint64
	CrateID    uint64
}

// Snapshot holds the decoded tables.
type Snapshot struct {
	Crates     map[uint64]CrateRow
	Categories map[uint64]CategoryRow
	// Links are in file order.
	Links []LinkRow
}

const (
	tableCrates           = "crates.csv"
	tableCategories       = "categories.csv"
	tableCratesCategories = "crates_categories.csv"
)

// sourceZone is the zone the dump's naive timestamps are written in.
var sourceZone = mustLoadLocation("Europe/London")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Load reads the dump archive at path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a gzipped dump tarball. Tables other than the three used
// are skipped without being decompressed into memory.
func Read(r io.Reader) (*Snapshot, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer gz.Close()

	s := &Snapshot{
		Crates:     make(map[uint64]CrateRow),
		Categories: make(map[uint64]CategoryRow),
	}
	seen := make(map[string]bool)

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		table, ok := tableName(hdr.Name)
		if !ok {
			continue
		}

		switch table {
		case tableCrates:
			err = readTable(tr, func(row map[string]string) error {
				c, err := parseCrate(row)
				if err == nil {
					s.Crates[c.ID] = c
				}
				return err
			})
		case tableCategories:
			err = readTable(tr, func(row map[string]string) error {
				c, err := parseCategory(row)
				if err == nil {
					s.Categories[c.ID] = c
				}
				return err
			})
		case tableCratesCategories:
			err = readTable(tr, func(row map[string]string) error {
				l, err := parseLink(row)
				if err == nil {
					s.Links = append(s.Links, l)
				}
				return err
			})
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", table, err)
		}
		seen[table] = true
	}

	for _, table := range []string{tableCrates, tableCategories, tableCratesCategories} {
		if !seen[table] {
			return nil, errs.New(errs.ErrCodeSnapshotInconsistent, "snapshot has no %s", table)
		}
	}
	return s, nil
}

// tableName matches "<dump-dir>/data/<table>.csv".
func tableName(name string) (string, bool) {
	if path.Base(path.Dir(name)) != "data" {
		return "", false
	}
	switch base := path.Base(name); base {
	case tableCrates, tableCategories, tableCratesCategories:
		return base, true
	}
	return "", false
}

// readTable decodes a CSV table with a header row, calling fn once per row
// with the row keyed by column name.
func readTable(r io.Reader, fn func(row map[string]string) error) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	columns := make([]string, len(header))
	copy(columns, header)

	row := make(map[string]string, len(columns))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		for i, col := range columns {
			row[col] = rec[i]
		}
		if err := fn(row); err != nil {
			line, _ := cr.FieldPos(0)
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}

func parseCrate(row map[string]string) (CrateRow, error) {
	id, err := parseID(row, "id")
	if err != nil {
		return CrateRow{}, err
	}
	downloads, err := parseUint(row, "downloads")
	if err != nil {
		return CrateRow{}, err
	}
	created, err := parseTimestamp(row["created_at"])
	if err != nil {
		return CrateRow{}, fmt.Errorf("created_at: %w", err)
	}
	updated, err := parseTimestamp(row["updated_at"])
	if err != nil {
		return CrateRow{}, fmt.Errorf("updated_at: %w", err)
	}
	return CrateRow{
		ID:            id,
		Name:          row["name"],
		Description:   row["description"],
		Documentation: row["documentation"],
		Homepage:      row["homepage"],
		Repository:    row["repository"],
		Downloads:     downloads,
		CreatedAt:     created,
		UpdatedAt:     updated,
	}, nil
}

func parseCategory(row map[string]string) (CategoryRow, error) {
	id, err := parseID(row, "id")
	if err != nil {
		return CategoryRow{}, err
	}
	cnt, err := parseUint(row, "crates_cnt")
	if err != nil {
		return CategoryRow{}, err
	}
	return CategoryRow{
		ID:          id,
		Category:    row["category"],
		Slug:        row["slug"],
		Description: row["description"],
		Path:        row["path"],
		CratesCnt:   cnt,
	}, nil
}

func parseLink(row map[string]string) (LinkRow, error) {
	cat, err := parseID(row, "category_id")
	if err != nil {
		return LinkRow{}, err
	}
	krate, err := parseID(row, "crate_id")
	if err != nil {
		return LinkRow{}, err
	}
	return LinkRow{CategoryID: cat, CrateID: krate}, nil
}

func parseID(row map[string]string, col string) (uint64, error) {
	v, ok := row[col]
	if !ok {
		return 0, fmt.Errorf("missing column %q", col)
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return id, nil
}

// parseUint parses an optional count column; a missing or empty value is 0.
func parseUint(row map[string]string, col string) (uint64, error) {
	v := row[col]
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return n, nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp reads a naive dump timestamp as Europe/London local time
// and returns it in UTC. Values carrying an explicit offset keep it.
func parseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, v, sourceZone); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range []string{"2006-01-02 15:04:05.999999999-07", "2006-01-02 15:04:05.999999999-07:00", time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}
