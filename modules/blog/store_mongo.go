package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"
	usersCollection    = "users"
)

// MongoStore implements PostStorage and CommentStorage on MongoDB.
type MongoStore struct {
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed blog store.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		posts:    db.Collection(postsCollection),
		comments: db.Collection(commentsCollection),
	}
}

// EnsureIndexes creates the indexes the store relies on.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create post indexes: %w", err)
	}

	_, err = s.comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) CreatePost(ctx context.Context, post *Post) error {
	now := time.Now().UTC()
	if post.ID.IsZero() {
		post.ID = bson.NewObjectID()
	}
	post.CreatedAt = now
	post.UpdatedAt = now

	if _, err := s.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *MongoStore) GetPostByID(ctx context.Context, id bson.ObjectID) (*Post, error) {
	var post Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

func (s *MongoStore) GetPostBySlug(ctx context.Context, slug string) (*PostWithComments, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"slug": slug}}},
		{{Key: "$limit", Value: 1}},
	}
	pipeline = append(pipeline, authorLookupStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.M{
		"from":         commentsCollection,
		"localField":   "_id",
		"foreignField": "post",
		"as":           "thread",
	}}})

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate post by slug: %w", err)
	}
	defer cursor.Close(ctx)

	var results []PostWithComments
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode post by slug: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrPostNotFound
	}
	return &results[0], nil
}

func (s *MongoStore) ListPublished(ctx context.Context) ([]PostWithAuthor, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": StatusPublished}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, authorLookupStages()...)

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate published posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []PostWithAuthor
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode published posts: %w", err)
	}
	return posts, nil
}

func (s *MongoStore) ListByAuthor(ctx context.Context, author bson.ObjectID) ([]Post, error) {
	cursor, err := s.posts.Find(ctx,
		bson.M{"author": author},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find posts by author: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts by author: %w", err)
	}
	return posts, nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, id bson.ObjectID, update PostUpdate) (*Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	var post Post
	err := s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}

func (s *MongoStore) DeletePost(ctx context.Context, id bson.ObjectID) error {
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}

	// Orphaned comments are removed with the post.
	if _, err := s.comments.DeleteMany(ctx, bson.M{"post": id}); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	return nil
}

func (s *MongoStore) AttachComment(ctx context.Context, postID, commentID bson.ObjectID) error {
	res, err := s.posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": commentID}},
	)
	if err != nil {
		return fmt.Errorf("attach comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *MongoStore) CreateComment(ctx context.Context, comment *Comment) error {
	now := time.Now().UTC()
	if comment.ID.IsZero() {
		comment.ID = bson.NewObjectID()
	}
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if _, err := s.comments.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (s *MongoStore) GetCommentByID(ctx context.Context, id bson.ObjectID) (*Comment, error) {
	var comment Comment
	if err := s.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

func (s *MongoStore) ListByPost(ctx context.Context, postID bson.ObjectID) ([]Comment, error) {
	return s.listComments(ctx, bson.M{"post": postID}, bson.D{{Key: "created_at", Value: 1}})
}

func (s *MongoStore) ListCommentsByAuthor(ctx context.Context, author bson.ObjectID) ([]Comment, error) {
	return s.listComments(ctx, bson.M{"author": author}, bson.D{{Key: "created_at", Value: -1}})
}

func (s *MongoStore) UpdateComment(ctx context.Context, id bson.ObjectID, content string) (*Comment, error) {
	var comment Comment
	err := s.comments.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{
			"content":    content,
			"updated_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return &comment, nil
}

func (s *MongoStore) SoftDeleteComment(ctx context.Context, id bson.ObjectID) error {
	res, err := s.comments.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("soft delete comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (s *MongoStore) listComments(ctx context.Context, filter bson.M, sort bson.D) ([]Comment, error) {
	cursor, err := s.comments.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func authorLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": usersCollection,
			"let":  bson.M{"authorId": "$author"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$authorId"}}}},
				bson.M{"$project": bson.M{"fullname": 1}},
			},
			"as": "author_info",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$author_info",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}
