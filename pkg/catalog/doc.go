// Package catalog holds the crate catalog data model and the per-entry
// logic that turns one input entry into one scored output entry.
//
// # Input
//
// The input document is a YAML (or JSON) list of entries, each tagged with a
// kind:
//
//	- kind: crates-io
//	  name: tokio
//	  topics: [asynchronous]
//	- kind: crates-io
//	  name: mavlink
//	  topics: [drones]
//	  repository: https://github.com/mavlink/rust-mavlink
//	- kind: manual
//	  topics: [drones]
//	  crate: { name: px4, ... }
//	- kind: category
//	  name: aerospace::drones
//
// [ParseInput] decodes the list into the closed set of [InputEntry] variants:
// [RegistryEntry], [ManualEntry] and [CategoryRequest]. [Partition] separates
// category requests from the entries that are processed directly.
//
// # Merge
//
// [Merger.Merge] turns a [RegistryEntry] or [ManualEntry] into a
// [GeneratedEntry]. For registry entries the crates.io record is
// authoritative; the entry's documentation, repository, license and
// description only fill fields crates.io leaves empty (see [coalesce]).
//
// # Score
//
// [Scorer.Score] rates an entry by how recently it saw activity (crate
// publish or repository push) and how often it was downloaded recently:
//
//	inactive <= 180 days  -> 1.0 x recent downloads
//	inactive <= 365 days  -> 0.5 x recent downloads
//	older or unknown      -> 0.1 x recent downloads
//
// # Output
//
// [WriteJSON] and [WriteYAML] serialize the generated list; [ReadYAML] loads
// a previously generated YAML file.
package catalog
