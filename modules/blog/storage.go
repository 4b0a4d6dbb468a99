package blog

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostUpdate carries the mutable post fields. Nil means "leave unchanged".
type PostUpdate struct {
	Title   *string
	Content *string
	Tags    *[]string
	Status  *string
}

// PostStorage defines the persistence operations for posts.
type PostStorage interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, id bson.ObjectID) (*Post, error)

	// GetPostBySlug returns the post joined with its author preview and
	// the comment thread.
	GetPostBySlug(ctx context.Context, slug string) (*PostWithComments, error)

	// ListPublished returns published posts with author previews, newest
	// first.
	ListPublished(ctx context.Context) ([]PostWithAuthor, error)

	// ListByAuthor returns the author's posts including drafts, newest first.
	ListByAuthor(ctx context.Context, author bson.ObjectID) ([]Post, error)

	UpdatePost(ctx context.Context, id bson.ObjectID, update PostUpdate) (*Post, error)
	DeletePost(ctx context.Context, id bson.ObjectID) error

	// AttachComment pushes the comment id onto the post's comments array.
	AttachComment(ctx context.Context, postID, commentID bson.ObjectID) error
}

// CommentStorage defines the persistence operations for comments.
type CommentStorage interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetCommentByID(ctx context.Context, id bson.ObjectID) (*Comment, error)
	ListByPost(ctx context.Context, postID bson.ObjectID) ([]Comment, error)
	ListCommentsByAuthor(ctx context.Context, author bson.ObjectID) ([]Comment, error)
	UpdateComment(ctx context.Context, id bson.ObjectID, content string) (*Comment, error)

	// SoftDeleteComment marks the comment deleted without removing the
	// document, so threaded replies keep their parent.
	SoftDeleteComment(ctx context.Context, id bson.ObjectID) error
}
