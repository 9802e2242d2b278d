// Package main provides the entry point for the omnisearch CLI.
//
// Omnisearch resolves natural-language queries against live web sources.
// It dispatches a search, fetches the top-ranked pages concurrently, and
// returns either a precise answer or a set of summarized sources.
//
// Usage:
//
//	omnisearch query "prime minister of india"
//	omnisearch query --json "golden retriever" "capital of france"
//
// See --help for all available options.
package main

// main is the entry point for omnisearch.
func main() {
	Execute()
}
