// Package blog implements posts and threaded comments: public listings of
// published posts, owner-scoped drafts, slug-addressed reads with embedded
// comment threads, and soft-deleted comments that keep replies anchored.
package blog
