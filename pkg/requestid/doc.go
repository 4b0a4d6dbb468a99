// Package requestid provides HTTP middleware and helpers for request
// correlation identifiers, including a context extractor for the logger so
// the id appears on every log record belonging to the same request.
package requestid
