package dbdump

import (
	"bytes"
	"testing"
	"time"

	errs "github.com/matzehuels/cratescore/pkg/errors"
)

func TestLoad(t *testing.T) {
	s, err := Load(writeDump(t, fullDump(t)))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if len(s.Crates) != 3 || len(s.Categories) != 3 || len(s.Links) != 4 {
		t.Fatalf("loaded %d crates, %d categories, %d links", len(s.Crates), len(s.Categories), len(s.Links))
	}

	mav := s.Crates[10]
	if mav.Name != "mavlink" || mav.Downloads != 52000 || mav.Repository != "https://github.com/mavlink/rust-mavlink" {
		t.Errorf("crate 10 = %+v", mav)
	}
	if mav.Documentation != "" {
		t.Errorf("empty documentation decoded as %q", mav.Documentation)
	}

	drones := s.Categories[2]
	if drones.Category != "Aerospace::Drones" || drones.Description != "Crates for drones." || drones.CratesCnt != 2 {
		t.Errorf("category 2 = %+v", drones)
	}

	if s.Links[0] != (LinkRow{CategoryID: 2, CrateID: 10}) {
		t.Errorf("first link = %+v", s.Links[0])
	}
}

func TestLoadTimestampsAreLondonLocal(t *testing.T) {
	s, err := Read(bytes.NewReader(fullDump(t)))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	// July is British Summer Time (UTC+1).
	summer := s.Crates[10].UpdatedAt
	if want := time.Date(2024, 7, 1, 11, 0, 0, 0, time.UTC); !summer.Equal(want) {
		t.Errorf("summer timestamp = %v, want %v", summer, want)
	}
	if summer.Location() != time.UTC {
		t.Errorf("timestamp location = %v, want UTC", summer.Location())
	}

	// January is GMT (UTC+0).
	winter := s.Crates[11].UpdatedAt
	if want := time.Date(2024, 1, 15, 12, 0, 0, 500_000_000, time.UTC); !winter.Equal(want) {
		t.Errorf("winter timestamp = %v, want %v", winter, want)
	}
}

func TestLoadMissingTable(t *testing.T) {
	data := dumpArchive(t, map[string]string{
		"crates.csv":     cratesCSV,
		"categories.csv": categoriesCSV,
	})
	_, err := Read(bytes.NewReader(data))
	if !errs.Is(err, errs.ErrCodeSnapshotInconsistent) {
		t.Errorf("error = %v, want SNAPSHOT_INCONSISTENT", err)
	}
}

func TestLoadMalformedRow(t *testing.T) {
	data := dumpArchive(t, map[string]string{
		"crates.csv":            cratesCSV,
		"categories.csv":        categoriesCSV,
		"crates_categories.csv": "category_id,crate_id\n2,ten\n",
	})
	if _, err := Read(bytes.NewReader(data)); err == nil {
		t.Error("expected error for non-numeric crate_id")
	}
}

func TestLoadNotGzip(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("plain text"))); err == nil {
		t.Error("expected error for non-gzip input")
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15 12:00:00", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)},
		{"2024-07-15 12:00:00.25", time.Date(2024, 7, 15, 11, 0, 0, 250_000_000, time.UTC)},
		{"2024-07-15T12:00:00", time.Date(2024, 7, 15, 11, 0, 0, 0, time.UTC)},
		{"2024-07-15 12:00:00+00", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)},
		{"2024-07-15T12:00:00Z", time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"2024-09-01-020017/data/crates.csv", "crates.csv", true},
		{"2024-09-01-020017/data/crates_categories.csv", "crates_categories.csv", true},
		{"2024-09-01-020017/data/versions.csv", "", false},
		{"2024-09-01-020017/crates.csv", "", false},
	}
	for _, tt := range tests {
		got, ok := tableName(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("tableName(%q) = %q, %v", tt.name, got, ok)
		}
	}
}
