// Package slug converts arbitrary strings, such as post titles, into
// URL-safe slugs with optional random suffixes for collision avoidance.
package slug
