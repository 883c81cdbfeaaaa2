package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitpress/blogapi/models"
	"github.com/fitpress/blogapi/repositories"
	"github.com/fitpress/blogapi/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// keeps the page offset inside int64 no matter what the client sends
	maxPage = math.MaxInt32
	// number of most-recent comments attached to a post detail response
	maxDetailComments = 50

	relatedLimit     = 5
	excerptRunes     = 120
	placeholderImage = "/placeholder.jpg"
)

// PostService implements list/fetch/create for posts plus the rating
// aggregate and related-article resolution.
type PostService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
}

// NewPostService creates a PostService over the given repositories.
func NewPostService(posts repositories.PostRepository, comments repositories.CommentRepository) *PostService {
	return &PostService{posts: posts, comments: comments}
}

// PageMeta echoes the effective pagination parameters back to the caller.
type PageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// PostPage is one page of posts in reverse-chronological order.
type PostPage struct {
	Data []models.Post `json:"data"`
	Meta PageMeta      `json:"meta"`
}

// ListPosts returns posts ordered by date descending. Out-of-range
// pagination parameters are clamped, never rejected.
func (s *PostService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	page, limit = clampPagination(page, limit)

	skip := int64(page-1) * int64(limit)
	posts, err := s.posts.FindPage(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	total, err := s.posts.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &PostPage{Data: posts, Meta: PageMeta{Total: total, Page: page, Limit: limit}}, nil
}

// GetPostBySlug fetches a post by its slug together with its most recent
// comments (up to 50, newest first).
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, []models.Comment, error) {
	post, err := s.posts.FindBySlug(ctx, slug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrPostNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.FindByPost(ctx, post.ID, maxDetailComments)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// CreatePostInput is the accepted payload for CreatePost. Author and
// HeroImage are optional; Tags feed the related-articles tag stage.
type CreatePostInput struct {
	Title     string
	Slug      string
	Body      string
	Author    string
	HeroImage string
	Tags      []string
}

// CreatePost sanitizes and persists a new post. The slug is stored trimmed
// and lower-cased; a uniqueness violation surfaces as ErrDuplicateSlug.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := utils.Sanitize(strings.TrimSpace(in.Title))
	slug := strings.ToLower(utils.Sanitize(strings.TrimSpace(in.Slug)))
	body := utils.Sanitize(in.Body)

	ve := &ValidationError{}
	if title == "" {
		ve.Add("title", "is required")
	}
	if slug == "" {
		ve.Add("slug", "is required")
	}
	if body == "" {
		ve.Add("body", "is required")
	}
	if ve.HasErrors() {
		return nil, ve
	}

	author := utils.Sanitize(strings.TrimSpace(in.Author))
	if author == "" {
		author = "Anonymous"
	}

	now := time.Now()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Slug:      slug,
		Body:      body,
		Date:      now,
		Author:    author,
		HeroImage: utils.Sanitize(strings.TrimSpace(in.HeroImage)),
		Tags:      sanitizeTags(in.Tags),
		Rating:    models.Rating{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Insert(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateSlug
		}
		return nil, err
	}
	return &post, nil
}

// RecalcRating recomputes the rating aggregate from scratch by aggregating
// all comments of the post, overwriting whatever incremental state exists.
// A post with zero comments resets to {0,0}.
//
// The id must be the post's 24-character hex object id; anything else fails
// validation. A well-formed id that matches no post is a no-op reporting the
// zero aggregate.
func (s *PostService) RecalcRating(ctx context.Context, id string) (models.Rating, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Rating{}, Invalid("id", "must be a 24-character hex id")
	}

	rating, err := s.comments.AggregateRating(ctx, oid)
	if err != nil {
		return models.Rating{}, err
	}
	if err := s.posts.SetRating(ctx, oid, rating, time.Now()); err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

// GetRelatedArticles returns up to 5 posts related to the source post via a
// three-stage fallback: shared tags, then title-keyword matches, then the
// latest posts. The source post is never included and no post appears twice.
func (s *PostService) GetRelatedArticles(ctx context.Context, id string) ([]models.PostSummary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}
	source, err := s.posts.FindByID(ctx, oid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	exclude := []primitive.ObjectID{source.ID}
	related := make([]models.Post, 0, relatedLimit)

	if len(source.Tags) > 0 {
		related, err = s.posts.FindRecentByTags(ctx, source.Tags, exclude, relatedLimit)
		if err != nil {
			return nil, err
		}
		exclude = appendIDs(exclude, related)
	}

	if len(related) < relatedLimit {
		if keywords := titleKeywords(source.Title); len(keywords) > 0 {
			more, err := s.posts.FindRecentByKeywords(ctx, keywords, exclude, relatedLimit-len(related))
			if err != nil {
				return nil, err
			}
			related = append(related, more...)
			exclude = appendIDs(exclude, more)
		}
	}

	if len(related) < relatedLimit {
		more, err := s.posts.FindRecent(ctx, exclude, relatedLimit-len(related))
		if err != nil {
			return nil, err
		}
		related = append(related, more...)
	}

	return summarize(related), nil
}

func clampPagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// titleKeywords splits a title on whitespace and keeps words longer than
// three characters. Matching is a naive substring check, so "train" will
// also match "training"; that behavior is intentional.
func titleKeywords(title string) []string {
	var keywords []string
	for _, w := range strings.Fields(title) {
		if len(w) > 3 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

func appendIDs(ids []primitive.ObjectID, posts []models.Post) []primitive.ObjectID {
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func summarize(posts []models.Post) []models.PostSummary {
	out := make([]models.PostSummary, 0, len(posts))
	for _, p := range posts {
		image := p.HeroImage
		if image == "" {
			image = placeholderImage
		}
		out = append(out, models.PostSummary{
			ID:      p.ID,
			Title:   p.Title,
			Author:  p.Author,
			Slug:    p.Slug,
			Excerpt: excerpt(p.Body),
			Image:   image,
		})
	}
	return out
}

// excerpt returns the first 120 characters of the body, rune safe.
func excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptRunes {
		return body
	}
	return string(runes[:excerptRunes])
}

func sanitizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = utils.Sanitize(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
