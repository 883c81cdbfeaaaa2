package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitpress/blogapi/services"
)

// CommentController exposes the comment endpoints over the comment service.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// GetCommentsByPost returns all comments of a post, newest first. The path
// parameter may be a post id or a slug.
// GET /comments/:postId
func (c *CommentController) GetCommentsByPost(ctx *gin.Context) {
	idOrSlug := ctx.Param("postId")

	comments, err := c.comments.GetCommentsByPost(ctx.Request.Context(), idOrSlug)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// CreateComment persists a comment and bumps the parent post's rating.
// POST /comments
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		PostID string `json:"postId" binding:"required"`
		Author string `json:"author" binding:"required"`
		Text   string `json:"text" binding:"required"`
		Rating int    `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	comment, err := c.comments.CreateComment(ctx.Request.Context(), services.CreateCommentInput{
		PostID: req.PostID,
		Author: req.Author,
		Text:   req.Text,
		Rating: req.Rating,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, comment)
}
