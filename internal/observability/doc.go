// Package observability provides structured logging and Prometheus metrics
// for the folio CLI and the citation server.
//
// Logging uses zerolog. The CLI logs to stderr in console format at warn
// level by default so that JSON on stdout stays machine readable.
//
// Metrics are registered on a caller-supplied registry rather than the
// global default, so tests and the server can each own one.
package observability
