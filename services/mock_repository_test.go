package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitpress/blogapi/models"
	"github.com/fitpress/blogapi/repositories"
)

// mockPostRepo is an in-memory PostRepository mirroring the MongoDB
// implementation's query semantics: date-descending reads, $nin-style
// exclusion, unique slugs.
type mockPostRepo struct {
	posts []models.Post
}

func (m *mockPostRepo) Insert(_ context.Context, post models.Post) error {
	for _, p := range m.posts {
		if p.Slug == post.Slug {
			return repositories.ErrDuplicateKey
		}
	}
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockPostRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	for i := range m.posts {
		if m.posts[i].ID == id {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockPostRepo) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	for i := range m.posts {
		if m.posts[i].Slug == slug {
			p := m.posts[i]
			return &p, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockPostRepo) FindPage(_ context.Context, skip, limit int64) ([]models.Post, error) {
	sorted := m.sorted()
	if skip >= int64(len(sorted)) {
		return []models.Post{}, nil
	}
	end := skip + limit
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}
	return sorted[skip:end], nil
}

func (m *mockPostRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.posts)), nil
}

func (m *mockPostRepo) FindRecentByTags(_ context.Context, tags []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	return m.filterRecent(exclude, limit, func(p models.Post) bool {
		for _, have := range p.Tags {
			for _, want := range tags {
				if have == want {
					return true
				}
			}
		}
		return false
	}), nil
}

func (m *mockPostRepo) FindRecentByKeywords(_ context.Context, keywords []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	return m.filterRecent(exclude, limit, func(p models.Post) bool {
		title := strings.ToLower(p.Title)
		for _, k := range keywords {
			if strings.Contains(title, strings.ToLower(k)) {
				return true
			}
		}
		return false
	}), nil
}

func (m *mockPostRepo) FindRecent(_ context.Context, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	return m.filterRecent(exclude, limit, func(models.Post) bool { return true }), nil
}

// SetRating on an id that matches no post is a no-op, like UpdateByID
// matching zero documents.
func (m *mockPostRepo) SetRating(_ context.Context, id primitive.ObjectID, rating models.Rating, at time.Time) error {
	for i := range m.posts {
		if m.posts[i].ID == id {
			m.posts[i].Rating = rating
			m.posts[i].UpdatedAt = at
		}
	}
	return nil
}

func (m *mockPostRepo) sorted() []models.Post {
	out := make([]models.Post, len(m.posts))
	copy(out, m.posts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (m *mockPostRepo) filterRecent(exclude []primitive.ObjectID, limit int, match func(models.Post) bool) []models.Post {
	out := make([]models.Post, 0, limit)
	for _, p := range m.sorted() {
		if excludedID(p.ID, exclude) || !match(p) {
			continue
		}
		out = append(out, p)
		if len(out) == limit {
			break
		}
	}
	return out
}

func excludedID(id primitive.ObjectID, exclude []primitive.ObjectID) bool {
	for _, e := range exclude {
		if id == e {
			return true
		}
	}
	return false
}

// mockCommentRepo is an in-memory CommentRepository.
type mockCommentRepo struct {
	comments []models.Comment
}

func (m *mockCommentRepo) Insert(_ context.Context, comment models.Comment) error {
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepo) FindByPost(_ context.Context, postID primitive.ObjectID, limit int) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockCommentRepo) AggregateRating(_ context.Context, postID primitive.ObjectID) (models.Rating, error) {
	var sum float64
	var count int64
	for _, c := range m.comments {
		if c.PostID == postID {
			sum += float64(c.Rating)
			count++
		}
	}
	if count == 0 {
		return models.Rating{}, nil
	}
	return models.Rating{Avg: sum / float64(count), Count: count}, nil
}

// newTestPost builds a post published `age` ago.
func newTestPost(title, slug string, tags []string, age time.Duration) models.Post {
	now := time.Now()
	return models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      slug,
		Body:      "body of " + title,
		Date:      now.Add(-age),
		Author:    "Author",
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
