package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Spin tiers
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// Spin sources record what paid for the spin
const (
	SpinSourceTicket  = "TICKET"  // Consumed a free wager-earned ticket
	SpinSourceBalance = "BALANCE" // Consumed a granted/purchased spin balance
)

// Spin records a single prize draw event
type Spin struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Tier       string             `bson:"tier" json:"tier"`
	Source     string             `bson:"source" json:"source"`
	PrizeLabel string             `bson:"prizeLabel" json:"prizeLabel"`
	PrizeValue float64            `bson:"prizeValue" json:"prizeValue"`
	Won        bool               `bson:"won" json:"won"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// SpinBalance is a per-user, per-tier count of granted or purchased spins
type SpinBalance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Tier      string             `bson:"tier" json:"tier"`
	Count     int                `bson:"count" json:"count"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TicketStatus summarises a user's spin eligibility
type TicketStatus struct {
	TotalWager       float64        `json:"totalWager"`
	TicketsTotal     int            `json:"ticketsTotal"`
	TicketsUsed      int            `json:"ticketsUsed"`
	TicketsRemaining int            `json:"ticketsRemaining"`
	SpinBalances     map[string]int `json:"spinBalances"`
}
