package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitpress/blogapi/models"
)

func TestIsObjectIDHex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"lowercase hex id", "64f1c0ffee0123456789abcd", true},
		{"uppercase hex id", "64F1C0FFEE0123456789ABCD", true},
		{"too short", "64f1c0ffee0123456789abc", false},
		{"too long", "64f1c0ffee0123456789abcde", false},
		{"non-hex character", "64f1c0ffee0123456789abcg", false},
		{"slug", "ultimate-full-body-workout", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isObjectIDHex(tt.input))
		})
	}
}

func TestNextRating(t *testing.T) {
	tests := []struct {
		name    string
		current models.Rating
		rating  int
		want    models.Rating
	}{
		{"first rating", models.Rating{}, 5, models.Rating{Avg: 5, Count: 1}},
		{"avg 4 count 1 plus 3", models.Rating{Avg: 4, Count: 1}, 3, models.Rating{Avg: 3.5, Count: 2}},
		{"avg 3.5 count 2 plus 5", models.Rating{Avg: 3.5, Count: 2}, 5, models.Rating{Avg: 4, Count: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRating(tt.current, tt.rating)
			assert.InDelta(t, tt.want.Avg, got.Avg, 1e-9)
			assert.Equal(t, tt.want.Count, got.Count)
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 100))

	long := strings.Repeat("a", 150)
	assert.Len(t, truncateRunes(long, 100), 100)

	multibyte := strings.Repeat("ü", 150)
	assert.Equal(t, 100, len([]rune(truncateRunes(multibyte, 100))))
}

func TestValidationError(t *testing.T) {
	ve := &ValidationError{}
	assert.False(t, ve.HasErrors())

	ve.Add("author", "is required").Add("rating", "must be an integer between 1 and 5")
	assert.True(t, ve.HasErrors())
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "validation failed: author is required; rating must be an integer between 1 and 5", ve.Error())

	single := Invalid("id", "must be a 24-character hex id")
	assert.Equal(t, []FieldError{{Field: "id", Message: "must be a 24-character hex id"}}, single.Fields)
}

func TestGetCommentsByPost(t *testing.T) {
	ctx := context.Background()
	post := newTestPost("Commented", "commented", nil, 0)
	postRepo := &mockPostRepo{posts: []models.Post{post}}
	commentRepo := &mockCommentRepo{}
	base := time.Now().Add(-time.Hour)
	for i, text := range []string{"oldest", "middle", "newest"} {
		commentRepo.comments = append(commentRepo.comments, models.Comment{
			ID:        primitive.NewObjectID(),
			PostID:    post.ID,
			Author:    "Reader",
			Text:      text,
			Rating:    4,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	svc := NewCommentService(postRepo, commentRepo)

	t.Run("by object id, newest first", func(t *testing.T) {
		comments, err := svc.GetCommentsByPost(ctx, post.ID.Hex())
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "newest", comments[0].Text)
		assert.Equal(t, "oldest", comments[2].Text)
	})

	t.Run("by slug", func(t *testing.T) {
		comments, err := svc.GetCommentsByPost(ctx, "commented")
		require.NoError(t, err)
		assert.Len(t, comments, 3)
	})

	t.Run("unknown locator", func(t *testing.T) {
		_, err := svc.GetCommentsByPost(ctx, "no-such-post")
		assert.ErrorIs(t, err, ErrPostNotFound)
	})
}

func TestResolvePostHexSlugFallback(t *testing.T) {
	// a slug that happens to look like an object id still resolves once the
	// id lookup misses
	ctx := context.Background()
	hexSlug := strings.Repeat("ab", 12)
	post := newTestPost("Hex Slugged", hexSlug, nil, 0)
	svc := NewCommentService(&mockPostRepo{posts: []models.Post{post}}, &mockCommentRepo{})

	resolved, err := svc.resolvePost(ctx, hexSlug)
	require.NoError(t, err)
	assert.Equal(t, post.ID, resolved.ID)
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*CommentService, *mockPostRepo, models.Post) {
		post := newTestPost("Rated", "rated", nil, 0)
		post.Rating = models.Rating{Avg: 4, Count: 1}
		postRepo := &mockPostRepo{posts: []models.Post{post}}
		return NewCommentService(postRepo, &mockCommentRepo{}), postRepo, post
	}

	t.Run("by object id bumps the rating aggregate", func(t *testing.T) {
		svc, postRepo, post := newFixture()

		comment, err := svc.CreateComment(ctx, CreateCommentInput{
			PostID: post.ID.Hex(),
			Author: "Reader",
			Text:   "Great read",
			Rating: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)

		stored := postRepo.posts[0].Rating
		assert.InDelta(t, 3.5, stored.Avg, 1e-9)
		assert.Equal(t, int64(2), stored.Count)
	})

	t.Run("by slug resolves the same post", func(t *testing.T) {
		svc, postRepo, post := newFixture()

		comment, err := svc.CreateComment(ctx, CreateCommentInput{
			PostID: "rated",
			Author: "Reader",
			Text:   "Great read",
			Rating: 5,
		})
		require.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, int64(2), postRepo.posts[0].Rating.Count)
	})

	t.Run("round-trips through the comment listing", func(t *testing.T) {
		svc, _, post := newFixture()

		_, err := svc.CreateComment(ctx, CreateCommentInput{
			PostID: post.ID.Hex(),
			Author: "Reader",
			Text:   "Great read",
			Rating: 4,
		})
		require.NoError(t, err)

		comments, err := svc.GetCommentsByPost(ctx, "rated")
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "Great read", comments[0].Text)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc, _, _ := newFixture()

		_, err := svc.CreateComment(ctx, CreateCommentInput{
			PostID: "no-such-post",
			Author: "Reader",
			Text:   "Great read",
			Rating: 4,
		})
		assert.ErrorIs(t, err, ErrPostNotFound)
	})

	t.Run("all invalid fields collected", func(t *testing.T) {
		svc, _, _ := newFixture()

		_, err := svc.CreateComment(ctx, CreateCommentInput{})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Fields, 4)
	})
}
