package repositories

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fitpress/blogapi/models"
)

type mongoPostRepository struct {
	db *mongo.Database
}

// NewPostRepository creates a PostRepository backed by the posts collection.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &mongoPostRepository{db: db}
}

func (r *mongoPostRepository) c() *mongo.Collection {
	return r.db.Collection(postsCollection)
}

func (r *mongoPostRepository) Insert(ctx context.Context, post models.Post) error {
	if _, err := r.c().InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *mongoPostRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoPostRepository) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoPostRepository) findOne(ctx context.Context, filter bson.M) (*models.Post, error) {
	var post models.Post
	err := r.c().FindOne(ctx, filter).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *mongoPostRepository) FindPage(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return r.findAll(ctx, bson.M{}, findOpts)
}

func (r *mongoPostRepository) Count(ctx context.Context) (int64, error) {
	return r.c().CountDocuments(ctx, bson.D{})
}

func (r *mongoPostRepository) FindRecentByTags(ctx context.Context, tags []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	filter := bson.M{"tags": bson.M{"$in": tags}}
	applyExclude(filter, exclude)
	return r.findRecent(ctx, filter, limit)
}

func (r *mongoPostRepository) FindRecentByKeywords(ctx context.Context, keywords []string, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	ors := make([]bson.M, 0, len(keywords))
	for _, k := range keywords {
		ors = append(ors, bson.M{"title": bson.M{"$regex": regexp.QuoteMeta(k), "$options": "i"}})
	}
	filter := bson.M{"$or": ors}
	applyExclude(filter, exclude)
	return r.findRecent(ctx, filter, limit)
}

func (r *mongoPostRepository) FindRecent(ctx context.Context, exclude []primitive.ObjectID, limit int) ([]models.Post, error) {
	filter := bson.M{}
	applyExclude(filter, exclude)
	return r.findRecent(ctx, filter, limit)
}

func (r *mongoPostRepository) findRecent(ctx context.Context, filter bson.M, limit int) ([]models.Post, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit))
	return r.findAll(ctx, filter, findOpts)
}

func (r *mongoPostRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Post, error) {
	cur, err := r.c().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0)
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *mongoPostRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating models.Rating, at time.Time) error {
	update := bson.M{"$set": bson.M{"rating": rating, "updatedAt": at}}
	_, err := r.c().UpdateByID(ctx, id, update)
	return err
}

func applyExclude(filter bson.M, exclude []primitive.ObjectID) {
	if len(exclude) > 0 {
		filter["_id"] = bson.M{"$nin": exclude}
	}
}
