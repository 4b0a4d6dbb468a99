// Package binder decodes HTTP request payloads into typed structs with
// content-type enforcement and body size limits.
package binder
