package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitpress/blogapi/models"
	"github.com/fitpress/blogapi/repositories"
	"github.com/fitpress/blogapi/utils"
)

const maxAuthorRunes = 100

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// CommentService implements comment listing and creation, including the
// incremental rating aggregate on the parent post.
type CommentService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewCommentService creates a CommentService over the given repositories.
func NewCommentService(posts repositories.PostRepository, comments repositories.CommentRepository) *CommentService {
	return &CommentService{posts: posts, comments: comments}
}

// resolvePost accepts a polymorphic post locator: a 24-character hex string
// is tried as an object id first, anything else (or a miss) falls back to a
// slug lookup.
func (s *CommentService) resolvePost(ctx context.Context, idOrSlug string) (*models.Post, error) {
	if isObjectIDHex(idOrSlug) {
		if oid, err := primitive.ObjectIDFromHex(idOrSlug); err == nil {
			post, err := s.posts.FindByID(ctx, oid)
			if err == nil {
				return post, nil
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return nil, err
			}
		}
	}

	post, err := s.posts.FindBySlug(ctx, idOrSlug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetCommentsByPost returns all comments of the resolved post, newest first.
func (s *CommentService) GetCommentsByPost(ctx context.Context, idOrSlug string) ([]models.Comment, error) {
	post, err := s.resolvePost(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	return s.comments.FindByPost(ctx, post.ID, 0)
}

// CreateCommentInput is the accepted payload for CreateComment. PostID may
// be an object id or a slug.
type CreateCommentInput struct {
	PostID string
	Author string
	Text   string
	Rating int
}

// CreateComment validates, sanitizes and persists a comment, then bumps the
// parent post's rating aggregate incrementally. The read-modify-write on the
// aggregate is deliberately not atomic; concurrent writers can race and the
// recalc endpoint is the reconciliation path.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	author := truncateRunes(utils.Sanitize(strings.TrimSpace(in.Author)), maxAuthorRunes)
	text := utils.Sanitize(strings.TrimSpace(in.Text))

	ve := &ValidationError{}
	if in.PostID == "" {
		ve.Add("postId", "is required")
	}
	if author == "" {
		ve.Add("author", "is required")
	}
	if text == "" {
		ve.Add("text", "is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		ve.Add("rating", "must be an integer between 1 and 5")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	post, err := s.resolvePost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    post.ID,
		Author:    author,
		Text:      text,
		Rating:    in.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Insert(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.posts.SetRating(ctx, post.ID, nextRating(post.Rating, in.Rating), now); err != nil {
		return nil, err
	}

	return &comment, nil
}

// nextRating folds one new rating into the running aggregate.
func nextRating(current models.Rating, rating int) models.Rating {
	count := current.Count + 1
	avg := (current.Avg*float64(current.Count) + float64(rating)) / float64(count)
	return models.Rating{Avg: avg, Count: count}
}

func isObjectIDHex(s string) bool {
	return objectIDPattern.MatchString(s)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
