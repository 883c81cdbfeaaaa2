package seed

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fitpress/blogapi/models"
	"github.com/fitpress/blogapi/repositories"
	"github.com/fitpress/blogapi/services"
	"github.com/fitpress/blogapi/utils"
)

type samplePost struct {
	title, slug, body, author string
	tags                      []string
}

type sampleComment struct {
	post   int // index into sample posts
	author string
	text   string
	rating int
}

var samplePosts = []samplePost{
	{
		title:  "The Ultimate Guide to Full-Body Workouts",
		slug:   "ultimate-full-body-workout",
		body:   "## Intro\nThis is a sample post body. Replace with real markdown or HTML.",
		author: "Alex Morgan",
		tags:   []string{"fitness", "training"},
	},
	{
		title:  "Build a Balanced Routine",
		slug:   "build-a-balanced-routine",
		body:   "## Balanced Routine\nSome sample content.",
		author: "Coach Sam",
		tags:   []string{"fitness"},
	},
}

var sampleComments = []sampleComment{
	{post: 0, author: "Guest", text: "Awesome article!", rating: 5},
	{post: 0, author: "Reader", text: "Helpful tips. Thanks.", rating: 4},
	{post: 1, author: "User", text: "Good read", rating: 4},
}

// Run wipes both collections, inserts the sample data and recomputes each
// post's rating aggregate through the regular recalc path.
func Run(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	posts := db.Collection("posts")
	comments := db.Collection("comments")

	utils.Sugar.Info("clearing data")
	if _, err := comments.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}
	if _, err := posts.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}

	utils.Sugar.Info("inserting posts")
	now := time.Now()
	created := make([]models.Post, 0, len(samplePosts))
	for i, sp := range samplePosts {
		created = append(created, models.Post{
			ID:        primitive.NewObjectID(),
			Title:     sp.title,
			Slug:      sp.slug,
			Body:      sp.body,
			Date:      now.Add(time.Duration(-i) * time.Hour),
			Author:    sp.author,
			Tags:      sp.tags,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	docs := make([]interface{}, len(created))
	for i := range created {
		docs[i] = created[i]
	}
	if _, err := posts.InsertMany(ctx, docs); err != nil {
		return err
	}

	utils.Sugar.Info("inserting comments")
	commentDocs := make([]interface{}, 0, len(sampleComments))
	for _, sc := range sampleComments {
		commentDocs = append(commentDocs, models.Comment{
			ID:        primitive.NewObjectID(),
			PostID:    created[sc.post].ID,
			Author:    sc.author,
			Text:      sc.text,
			Rating:    sc.rating,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := comments.InsertMany(ctx, commentDocs); err != nil {
		return err
	}

	svc := services.NewPostService(repositories.NewPostRepository(db), repositories.NewCommentRepository(db))
	for _, p := range created {
		if _, err := svc.RecalcRating(ctx, p.ID.Hex()); err != nil {
			return err
		}
	}
	return nil
}
