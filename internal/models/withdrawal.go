package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal statuses. Pending requests act as a hold against the wallet;
// approved and rejected are terminal.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Withdrawal represents a user's request to pay out wallet funds
type Withdrawal struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Amount      float64            `bson:"amount" json:"amount"`
	Status      string             `bson:"status" json:"status"`
	Reference   string             `bson:"reference" json:"reference"` // External payout reference
	ProcessedBy string             `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	Note        string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	ProcessedAt time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}
