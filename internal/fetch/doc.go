// Package fetch retrieves raw page bodies over HTTP.
//
// The Fetcher applies a mandatory per-request timeout, a browser-like
// User-Agent, and a response size cap. Failures are returned as typed
// *Error values so callers can isolate a single bad URL without aborting
// a batch. No retries are performed; a single attempt per URL is the
// designed behavior.
package fetch
