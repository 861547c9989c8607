// Package dbdump discovers crates by category from the crates.io database
// dump (https://static.crates.io/db-dump.tar.gz).
//
// The dump is a gzipped tarball of CSV tables. Three of them are read:
//
//   - data/crates.csv: one row per crate
//   - data/categories.csv: one row per category
//   - data/crates_categories.csv: category/crate link rows
//
// [EnsureSnapshot] keeps a local copy no older than a day, [Load] decodes
// the three tables, [BuildIndex] links crates and categories in both
// directions, and [Index.Expand] turns requested category names into manual
// catalog entries, one per crate.
//
// Timestamps in the dump are local time in Europe/London; they are
// converted to UTC when loaded.
package dbdump
