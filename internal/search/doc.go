// Package search provides the web search provider adapters.
//
// The primary adapter queries DuckDuckGo's HTML endpoint and parses ranked
// result anchors into candidate URLs. The Wikipedia adapter is the fallback
// knowledge source: a two-step title search plus plain-text extract lookup
// that synthesizes at most one ready-made source, bypassing the page
// fetcher since the API already returns clean text.
//
// Providers fail with typed errors (*ProviderError); the resolution engine
// decides the fallback policy.
package search
