package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known feature flag keys
const (
	FlagRegistration = "registration"
	FlagSpins        = "spins"
	FlagWithdrawals  = "withdrawals"
)

// FeatureFlag is an admin-controlled toggle stored in the database
type FeatureFlag struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key"`
	Enabled   bool               `bson:"enabled" json:"enabled"`
	UpdatedBy string             `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
