package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet holds the cash balance for a single user. Held is the sum of all
// pending withdrawal amounts; the spendable balance is Balance - Held.
type Wallet struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Balance   float64            `bson:"balance" json:"balance"`
	Held      float64            `bson:"held" json:"held"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Available returns the balance not covered by pending withdrawal holds
func (w *Wallet) Available() float64 {
	return w.Balance - w.Held
}

// Wallet transaction types
const (
	TxnTypeSpinWin    = "SPIN_WIN"
	TxnTypeWithdrawal = "WITHDRAWAL"
	TxnTypeAdjustment = "ADJUSTMENT"
)

// WalletTransaction records a single ledger entry against a wallet.
// Amount is positive for credits and negative for debits.
type WalletTransaction struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Type      string             `bson:"type" json:"type"`
	Amount    float64            `bson:"amount" json:"amount"`
	Reference string             `bson:"reference,omitempty" json:"reference,omitempty"` // e.g. spin ID or withdrawal ID
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
