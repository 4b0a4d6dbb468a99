// Package response provides the JSON response helpers shared by all HTTP
// handlers, keeping the wire shape of {"message": ...} payloads consistent.
package response
