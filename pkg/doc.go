// Package pkg provides the libraries behind cratescore, a scored catalog of
// Rust crates.
//
// # Overview
//
// cratescore reads a curated list of crates, enriches each one with
// registry and repository data, and writes a dataset a static site can
// render. The pkg directory is organized by concern:
//
//  1. [catalog] - Input parsing, the merge engine, scoring and dataset output
//  2. [dbdump] - The crates.io database dump: download, decode, category index
//  3. [integrations] - API clients (crates.io, GitHub) over a shared HTTP client
//  4. [pipeline] - Orchestration of a full run
//  5. [cache] - Advisory blob cache (file, Redis, no-op)
//
// Supporting packages: [errors] (coded errors), [httputil] (retry with
// backoff), [observability] (hooks and run statistics) and [buildinfo].
//
// # Architecture
//
// Data flow of a run:
//
//	crates.yaml
//	     ↓
//	[catalog] parse input (crates-io, manual, category entries)
//	     ↓
//	[catalog] merge with crates.io record     ← [integrations/crates]
//	     ↓
//	[github] resolve and fetch repository     ← [cache]
//	     ↓
//	[catalog] score
//	     ↓
//	[dbdump] expand categories, same path for every synthesized entry
//	     ↓
//	JSON on stdout, YAML dataset on disk
//
// # Quick Start
//
//	entries, err := catalog.LoadInput("crates.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gh, err := github.NewClient(os.Getenv("GITHUB_TOKEN"), store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	merger := catalog.NewMerger(crates.NewClient(), logger)
//	runner := pipeline.NewRunner(merger, catalog.NewScorer(), gh, logger)
//
//	result, err := runner.Execute(ctx, entries)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	catalog.WriteYAML("_data/crates_generated.yaml", result.Entries)
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/catalog
// [dbdump]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/dbdump
// [integrations]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/integrations
// [integrations/crates]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/integrations/crates
// [github]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/integrations/github
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cratescore/pkg/buildinfo
package pkg
