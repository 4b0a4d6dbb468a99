package blog

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog entry. Draft posts are visible only to their author.
type Post struct {
	ID        bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title     string          `bson:"title" json:"title"`
	Slug      string          `bson:"slug" json:"slug"`
	Content   string          `bson:"content" json:"content"`
	Tags      []string        `bson:"tags,omitempty" json:"tags,omitempty"`
	Status    string          `bson:"status" json:"status"`
	Author    bson.ObjectID   `bson:"author" json:"author"`
	Comments  []bson.ObjectID `bson:"comments,omitempty" json:"-"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// AuthorPreview is the subset of a user embedded in public post listings.
type AuthorPreview struct {
	ID       bson.ObjectID `bson:"_id" json:"id"`
	FullName string        `bson:"fullname" json:"fullname"`
}

// PostWithAuthor is a post joined with its author preview for listings.
type PostWithAuthor struct {
	Post       `bson:",inline"`
	AuthorInfo *AuthorPreview `bson:"author_info" json:"author_info,omitempty"`
}

// PostWithComments is a single post joined with its author and comments.
type PostWithComments struct {
	Post       `bson:",inline"`
	AuthorInfo *AuthorPreview `bson:"author_info" json:"author_info,omitempty"`
	Thread     []Comment      `bson:"thread" json:"comments"`
}

// Comment is a reply on a post. Parent is set for threaded replies.
// Deleting a comment soft-deletes it so replies keep their anchor.
type Comment struct {
	ID        bson.ObjectID  `bson:"_id,omitempty" json:"id"`
	Post      bson.ObjectID  `bson:"post" json:"post"`
	Author    bson.ObjectID  `bson:"author" json:"author"`
	Content   string         `bson:"content" json:"content"`
	Parent    *bson.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	Likes     int            `bson:"likes" json:"likes"`
	IsDeleted bool           `bson:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

// Redacted returns the comment with content blanked when soft-deleted.
func (c Comment) Redacted() Comment {
	if c.IsDeleted {
		c.Content = ""
	}
	return c
}
