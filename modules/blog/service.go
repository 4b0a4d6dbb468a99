package blog

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pencraft/pencraft/pkg/logger"
	"github.com/pencraft/pencraft/pkg/sanitizer"
	"github.com/pencraft/pencraft/pkg/slug"
	"github.com/pencraft/pencraft/pkg/validator"
)

const (
	maxTitleLen   = 200
	slugSuffixLen = 6
)

// Service applies the blog's business rules on top of storage: ownership
// checks, slug generation, status validation and comment threading.
type Service struct {
	posts    PostStorage
	comments CommentStorage
	log      *slog.Logger
}

// NewService creates a blog service.
func NewService(posts PostStorage, comments CommentStorage, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{posts: posts, comments: comments, log: log}
}

// CreatePostParams carries new post input.
type CreatePostParams struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

// CreatePost validates input, derives a unique slug from the title and
// stores the post owned by author.
func (s *Service) CreatePost(ctx context.Context, author bson.ObjectID, params CreatePostParams) (*Post, error) {
	title := sanitizer.TrimSpace(params.Title)
	if err := validator.Apply(
		validator.Required("title", title),
		validator.MaxLen("title", title, maxTitleLen),
		validator.Required("content", params.Content),
	); err != nil {
		return nil, err
	}

	status := params.Status
	if status == "" {
		status = StatusDraft
	}
	if status != StatusDraft && status != StatusPublished {
		return nil, ErrInvalidStatus
	}

	post := &Post{
		Title:   title,
		Slug:    slug.Make(title, slug.MaxLength(80), slug.WithSuffix(slugSuffixLen)),
		Content: params.Content,
		Tags:    params.Tags,
		Status:  status,
		Author:  author,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.InfoContext(ctx, "post created",
		logger.Component("blog"),
		logger.UserID(author.Hex()),
		slog.String("slug", post.Slug),
	)
	return post, nil
}

// ListPublished returns all published posts with author previews.
func (s *Service) ListPublished(ctx context.Context) ([]PostWithAuthor, error) {
	return s.posts.ListPublished(ctx)
}

// ListMine returns the caller's posts, drafts included.
func (s *Service) ListMine(ctx context.Context, author bson.ObjectID) ([]Post, error) {
	return s.posts.ListByAuthor(ctx, author)
}

// GetOwnPost returns the post only when caller owns it.
func (s *Service) GetOwnPost(ctx context.Context, caller, id bson.ObjectID) (*Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != caller {
		return nil, ErrForbidden
	}
	return post, nil
}

// GetBySlug returns a post with its author preview and comment thread.
// Soft-deleted comments come back with their content redacted.
func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*PostWithComments, error) {
	post, err := s.posts.GetPostBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	for i, c := range post.Thread {
		post.Thread[i] = c.Redacted()
	}
	return post, nil
}

// UpdatePost applies the update when caller owns the post. The slug is
// stable: retitling never breaks published links.
func (s *Service) UpdatePost(ctx context.Context, caller, id bson.ObjectID, update PostUpdate) (*Post, error) {
	if _, err := s.GetOwnPost(ctx, caller, id); err != nil {
		return nil, err
	}

	if update.Title != nil {
		title := sanitizer.TrimSpace(*update.Title)
		if err := validator.Apply(
			validator.Required("title", title),
			validator.MaxLen("title", title, maxTitleLen),
		); err != nil {
			return nil, err
		}
		update.Title = &title
	}
	if update.Status != nil && *update.Status != StatusDraft && *update.Status != StatusPublished {
		return nil, ErrInvalidStatus
	}

	return s.posts.UpdatePost(ctx, id, update)
}

// DeletePost removes the post and its comments when caller owns it.
func (s *Service) DeletePost(ctx context.Context, caller, id bson.ObjectID) error {
	if _, err := s.GetOwnPost(ctx, caller, id); err != nil {
		return err
	}
	return s.posts.DeletePost(ctx, id)
}

// CreateCommentParams carries new comment input.
type CreateCommentParams struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
	Parent  string `json:"parent,omitempty"`
}

// CreateComment stores a comment on a post and links it into the post's
// comments array. Parent, when set, must reference a comment on the same
// post.
func (s *Service) CreateComment(ctx context.Context, author bson.ObjectID, params CreateCommentParams) (*Comment, error) {
	if err := validator.Apply(
		validator.Required("post_id", params.PostID),
		validator.Required("content", params.Content),
	); err != nil {
		return nil, err
	}

	postID, err := bson.ObjectIDFromHex(params.PostID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &Comment{
		Post:    postID,
		Author:  author,
		Content: params.Content,
	}
	if params.Parent != "" {
		parentID, err := bson.ObjectIDFromHex(params.Parent)
		if err != nil {
			return nil, ErrCommentNotFound
		}
		parent, err := s.comments.GetCommentByID(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent.Post != postID {
			return nil, ErrCommentNotFound
		}
		comment.Parent = &parentID
	}

	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if err := s.posts.AttachComment(ctx, postID, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns all comments for a post, soft-deleted ones redacted.
func (s *Service) ListComments(ctx context.Context, postID bson.ObjectID) ([]Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i, c := range comments {
		comments[i] = c.Redacted()
	}
	return comments, nil
}

// ListMyComments returns the caller's comments, newest first.
func (s *Service) ListMyComments(ctx context.Context, author bson.ObjectID) ([]Comment, error) {
	return s.comments.ListCommentsByAuthor(ctx, author)
}

// UpdateComment edits a comment's content when caller owns it.
func (s *Service) UpdateComment(ctx context.Context, caller, id bson.ObjectID, content string) (*Comment, error) {
	if err := validator.Apply(validator.Required("content", content)); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Author != caller {
		return nil, ErrForbidden
	}
	return s.comments.UpdateComment(ctx, id, content)
}

// DeleteComment soft-deletes a comment when caller owns it.
func (s *Service) DeleteComment(ctx context.Context, caller, id bson.ObjectID) error {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.Author != caller {
		return ErrForbidden
	}
	return s.comments.SoftDeleteComment(ctx, id)
}
