// Package crates provides an HTTP client for the crates.io API.
//
// # Overview
//
// This package fetches crate metadata from crates.io (https://crates.io),
// the Rust community's package registry.
//
// # Usage
//
//	client := crates.NewClient()
//
//	krate, err := client.FetchCrate(ctx, "tokio")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(krate.Name, krate.MaxVersion, krate.RecentDownloadCount())
//
// # Crate
//
// [Client.FetchCrate] returns a [Crate] mirroring the API's crate object:
// identity, description, license, documentation/homepage/repository URLs,
// total and recent downloads, categories, keywords, timestamps and links.
// The same type is used for manually curated entries and for records
// synthesized from the crates.io database dump, which fill what they cannot
// know with [Unknown].
//
// # User-Agent
//
// The client includes a User-Agent header as required by crates.io policy.
package crates
