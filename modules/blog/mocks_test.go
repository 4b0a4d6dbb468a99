package blog_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/pencraft/pencraft/modules/blog"
)

// memoryBlogStore is an in-memory PostStorage and CommentStorage.
type memoryBlogStore struct {
	mu       sync.Mutex
	posts    map[bson.ObjectID]*blog.Post
	comments map[bson.ObjectID]*blog.Comment
	authors  map[bson.ObjectID]string
}

func newMemoryBlogStore() *memoryBlogStore {
	return &memoryBlogStore{
		posts:    make(map[bson.ObjectID]*blog.Post),
		comments: make(map[bson.ObjectID]*blog.Comment),
		authors:  make(map[bson.ObjectID]string),
	}
}

func (s *memoryBlogStore) addAuthor(name string) bson.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := bson.NewObjectID()
	s.authors[id] = name
	return id
}

func (s *memoryBlogStore) CreatePost(_ context.Context, post *blog.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	clone := *post
	s.posts[post.ID] = &clone
	return nil
}

func (s *memoryBlogStore) GetPostByID(_ context.Context, id bson.ObjectID) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, blog.ErrPostNotFound
	}
	clone := *post
	return &clone, nil
}

func (s *memoryBlogStore) GetPostBySlug(_ context.Context, slug string) (*blog.PostWithComments, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.Slug != slug {
			continue
		}
		result := &blog.PostWithComments{Post: *post}
		if name, ok := s.authors[post.Author]; ok {
			result.AuthorInfo = &blog.AuthorPreview{ID: post.Author, FullName: name}
		}
		for _, c := range s.comments {
			if c.Post == post.ID {
				result.Thread = append(result.Thread, *c)
			}
		}
		sort.Slice(result.Thread, func(i, j int) bool {
			return result.Thread[i].CreatedAt.Before(result.Thread[j].CreatedAt)
		})
		return result, nil
	}
	return nil, blog.ErrPostNotFound
}

func (s *memoryBlogStore) ListPublished(_ context.Context) ([]blog.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []blog.PostWithAuthor
	for _, post := range s.posts {
		if post.Status != blog.StatusPublished {
			continue
		}
		entry := blog.PostWithAuthor{Post: *post}
		if name, ok := s.authors[post.Author]; ok {
			entry.AuthorInfo = &blog.AuthorPreview{ID: post.Author, FullName: name}
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryBlogStore) ListByAuthor(_ context.Context, author bson.ObjectID) ([]blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []blog.Post
	for _, post := range s.posts {
		if post.Author == author {
			out = append(out, *post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryBlogStore) UpdatePost(_ context.Context, id bson.ObjectID, update blog.PostUpdate) (*blog.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, blog.ErrPostNotFound
	}
	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.Tags != nil {
		post.Tags = *update.Tags
	}
	if update.Status != nil {
		post.Status = *update.Status
	}
	post.UpdatedAt = time.Now().UTC()

	clone := *post
	return &clone, nil
}

func (s *memoryBlogStore) DeletePost(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return blog.ErrPostNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.Post == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *memoryBlogStore) AttachComment(_ context.Context, postID, commentID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return blog.ErrPostNotFound
	}
	post.Comments = append(post.Comments, commentID)
	return nil
}

func (s *memoryBlogStore) CreateComment(_ context.Context, comment *blog.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	clone := *comment
	s.comments[comment.ID] = &clone
	return nil
}

func (s *memoryBlogStore) GetCommentByID(_ context.Context, id bson.ObjectID) (*blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, blog.ErrCommentNotFound
	}
	clone := *comment
	return &clone, nil
}

func (s *memoryBlogStore) ListByPost(_ context.Context, postID bson.ObjectID) ([]blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []blog.Comment
	for _, c := range s.comments {
		if c.Post == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryBlogStore) ListCommentsByAuthor(_ context.Context, author bson.ObjectID) ([]blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []blog.Comment
	for _, c := range s.comments {
		if c.Author == author {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memoryBlogStore) UpdateComment(_ context.Context, id bson.ObjectID, content string) (*blog.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok || comment.IsDeleted {
		return nil, blog.ErrCommentNotFound
	}
	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()

	clone := *comment
	return &clone, nil
}

func (s *memoryBlogStore) SoftDeleteComment(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return blog.ErrCommentNotFound
	}
	comment.IsDeleted = true
	return nil
}
