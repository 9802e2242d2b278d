// Package model defines the core data types shared across omnisearch.
//
// All entities live within the scope of a single resolve call: a Resolution
// and its FetchedSources are created during one call and never mutated or
// shared across queries afterwards.
package model
