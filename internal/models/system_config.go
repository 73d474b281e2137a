package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemConfig represents a configuration setting stored in the database
// (e.g. "prize_table_gold", "ticket_unit")
type SystemConfig struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key         string             `bson:"key" json:"key"`
	Value       interface{}        `bson:"value" json:"value"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
