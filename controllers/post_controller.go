package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitpress/blogapi/models"
	"github.com/fitpress/blogapi/services"
)

// RecalcIDParam names the wildcard the recalc route reads the post id from.
// Gin allows one wildcard name per path segment, so PUT
// /posts/:slug/recalc-rating shares the :slug parameter with GET
// /posts/:slug; on the recalc route the segment carries a post id, never a
// slug.
const RecalcIDParam = "slug"

// PostController exposes the post endpoints over the post service.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// ListPosts returns a reverse-chronological page of posts.
// GET /posts?limit=20&page=1
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := p.posts.ListPosts(ctx.Request.Context(), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetPostBySlug returns a single post with its recent comments.
// GET /posts/:slug
func (p *PostController) GetPostBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")

	post, comments, err := p.posts.GetPostBySlug(ctx.Request.Context(), slug)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"data": postWithComments{Post: *post, Comments: comments}})
}

type postWithComments struct {
	models.Post
	Comments []models.Comment `json:"comments"`
}

// CreatePost persists a new post.
// POST /posts
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title     string   `json:"title" binding:"required"`
		Slug      string   `json:"slug" binding:"required"`
		Body      string   `json:"body" binding:"required"`
		Author    string   `json:"author"`
		HeroImage string   `json:"heroImage"`
		Tags      []string `json:"tags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	post, err := p.posts.CreatePost(ctx.Request.Context(), services.CreatePostInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Body:      req.Body,
		Author:    req.Author,
		HeroImage: req.HeroImage,
		Tags:      req.Tags,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": post})
}

// RecalcRating recomputes a post's rating aggregate from its comments. The
// post id arrives in the RecalcIDParam wildcard.
// PUT /posts/:slug/recalc-rating
func (p *PostController) RecalcRating(ctx *gin.Context) {
	id := ctx.Param(RecalcIDParam)

	rating, err := p.posts.RecalcRating(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, rating)
}

// GetRelatedArticles returns up to five related post summaries.
// GET /posts/related/:postId
func (p *PostController) GetRelatedArticles(ctx *gin.Context) {
	id := ctx.Param("postId")

	related, err := p.posts.GetRelatedArticles(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, related)
}
