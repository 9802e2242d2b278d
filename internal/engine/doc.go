// Package engine implements the query resolution engine.
//
// One resolution moves through a fixed sequence: search the primary
// provider, fan out concurrent fetches over the top-ranked URLs, race the
// fetch tasks for the first precise answer, and aggregate whatever
// survived. An empty or failed search degrades to the knowledge fallback
// instead of fetching.
//
// Concurrency model: one coordinating goroutine fans out one fetch task
// per URL and joins on all of them before aggregating. The only state
// shared between tasks is the first-writer-wins answer slot. Tasks are
// never cancelled once dispatched; the join barrier always waits for every
// fetch so already-issued requests contribute their sources, bounding
// total latency to the slowest single fetch rather than the sum.
//
// Failure isolation: a fetch task's timeout, transport error, or bad
// status only drops that task's source. Provider errors route to the
// fallback. NotFound is a valid terminal outcome, not an error.
package engine
