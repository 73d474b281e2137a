package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlacklistEntry represents a blacklisted platform account
type BlacklistEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	PlatformID    string             `bson:"platformId" json:"platformId"`
	Reason        string             `bson:"reason" json:"reason"`
	BlacklistedBy string             `bson:"blacklistedBy" json:"blacklistedBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
