package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitpress/blogapi/models"
)

const (
	postsCollection    = "posts"
	commentsCollection = "comments"
)

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// PostRepository abstracts post persistence. Every multi-document read
// returns posts newest first by publication date.
type PostRepository interface {
	Insert(ctx context.Context, post models.Post) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindPage(ctx context.Context, skip, limit int64) ([]models.Post, error)
	Count(ctx context.Context) (int64, error)
	// FindRecentByTags returns posts sharing at least one of the given tags.
	FindRecentByTags(ctx context.Context, tags []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error)
	// FindRecentByKeywords returns posts whose title contains any of the
	// given keywords, case-insensitively. keywords must be non-empty.
	FindRecentByKeywords(ctx context.Context, keywords []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error)
	FindRecent(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.Post, error)
	// SetRating overwrites the stored rating aggregate. Setting the rating
	// of an id that matches no post is a no-op, not an error.
	SetRating(ctx context.Context, id primitive.ObjectID, rating models.Rating, at time.Time) error
}

// CommentRepository abstracts comment persistence.
type CommentRepository interface {
	Insert(ctx context.Context, comment models.Comment) error
	// FindByPost returns a post's comments newest first. A limit of 0 means
	// no limit.
	FindByPost(ctx context.Context, postID primitive.ObjectID, limit int) ([]models.Comment, error)
	// AggregateRating computes the average rating and comment count over all
	// of a post's comments. A post with no comments yields the zero
	// aggregate.
	AggregateRating(ctx context.Context, postID primitive.ObjectID) (models.Rating, error)
}
