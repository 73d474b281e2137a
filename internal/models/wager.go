package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WagerRecord is a denormalised row from the platform wager feed.
// One record per platform account; TotalWager is cumulative.
type WagerRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PlatformID  string             `bson:"platformId" json:"platformId"`
	TotalWager  float64            `bson:"totalWager" json:"totalWager"`
	ImportedAt  time.Time          `bson:"importedAt" json:"importedAt"`
	FeedRowHash string             `bson:"feedRowHash,omitempty" json:"-"`
}
