package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var db *mongo.Database

// InitDatabase connects to MongoDB using configuration values and ensures
// the indexes the API relies on, including the unique slug constraint.
func InitDatabase() *mongo.Database {
	if db != nil {
		return db
	}

	cfg := Get()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(10 * time.Minute)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Ping at boot to surface network/auth problems early instead of on the
	// first query.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	db = client.Database(cfg.MongoDatabase)
	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}
	return db
}

// DB provides access to the initialized database handle.
func DB() *mongo.Database {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("posts").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = db.Collection("comments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}
