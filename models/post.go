package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rating is the denormalized aggregate of comment ratings kept on each post
// to avoid recomputing on every read. It is maintained incrementally by the
// comment write path and authoritatively by the recalc endpoint.
type Rating struct {
	Avg   float64 `bson:"avg" json:"avg"`
	Count int64   `bson:"count" json:"count"`
}

// Post represents a published blog article.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Slug      string             `bson:"slug" json:"slug"`
	Body      string             `bson:"body" json:"body"`
	Date      time.Time          `bson:"date" json:"date"`
	Author    string             `bson:"author" json:"author"`
	HeroImage string             `bson:"heroImage" json:"heroImage"`
	Tags      []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Rating    Rating             `bson:"rating" json:"rating"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PostSummary is the compact projection returned by the related-articles
// endpoint.
type PostSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Author  string             `json:"author"`
	Slug    string             `json:"slug"`
	Excerpt string             `json:"excerpt"`
	Image   string             `json:"image"`
}
