package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fitpress/blogapi/config"
	"github.com/fitpress/blogapi/controllers"
	"github.com/fitpress/blogapi/middleware"
	"github.com/fitpress/blogapi/repositories"
	"github.com/fitpress/blogapi/services"
	"github.com/fitpress/blogapi/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *mongo.Database) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and panic recovery go through zap instead of gin's default
	// console logger.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "API Running")
	})

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "ts": time.Now().UnixMilli()})
	})

	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	postController := controllers.NewPostController(services.NewPostService(postRepo, commentRepo))
	commentController := controllers.NewCommentController(services.NewCommentService(postRepo, commentRepo))

	writeLimit := middleware.RateLimitMiddleware()

	posts := r.Group("/posts")
	posts.GET("", postController.ListPosts)
	posts.GET("/related/:postId", postController.GetRelatedArticles)
	posts.GET("/:slug", postController.GetPostBySlug)
	posts.POST("", writeLimit, postController.CreatePost)
	// gin permits one wildcard name per segment; this route reuses :slug and
	// the handler reads it as the post id.
	posts.PUT("/:slug/recalc-rating", writeLimit, postController.RecalcRating)

	comments := r.Group("/comments")
	comments.GET("/:postId", commentController.GetCommentsByPost)
	comments.POST("", writeLimit, commentController.CreateComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
