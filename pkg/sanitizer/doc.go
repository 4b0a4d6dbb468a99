// Package sanitizer normalizes user-supplied input before validation and
// persistence.
package sanitizer
