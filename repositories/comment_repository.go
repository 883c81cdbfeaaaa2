package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitpress/blogapi/models"
)

type mongoCommentRepository struct {
	db *mongo.Database
}

// NewCommentRepository creates a CommentRepository backed by the comments
// collection.
func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &mongoCommentRepository{db: db}
}

func (r *mongoCommentRepository) c() *mongo.Collection {
	return r.db.Collection(commentsCollection)
}

func (r *mongoCommentRepository) Insert(ctx context.Context, comment models.Comment) error {
	_, err := r.c().InsertOne(ctx, comment)
	return err
}

func (r *mongoCommentRepository) FindByPost(ctx context.Context, postID primitive.ObjectID, limit int) ([]models.Comment, error) {
	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	cur, err := r.c().Find(ctx, bson.M{"postId": postID}, findOpts)
	if err != nil {
		return nil, err
	}
	comments := make([]models.Comment, 0)
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *mongoCommentRepository) AggregateRating(ctx context.Context, postID primitive.ObjectID) (models.Rating, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"postId": postID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$postId",
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.c().Aggregate(ctx, pipeline)
	if err != nil {
		return models.Rating{}, err
	}
	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.Rating{}, err
	}
	if len(rows) == 0 {
		return models.Rating{}, nil
	}
	return models.Rating{Avg: rows[0].Avg, Count: rows[0].Count}, nil
}
