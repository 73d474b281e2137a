package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered promotion user
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	Role              string             `bson:"role" json:"role"`
	PlatformID        string             `bson:"platformId,omitempty" json:"platformId,omitempty"` // Linked gambling-platform account
	PlatformLinkedAt  time.Time          `bson:"platformLinkedAt,omitempty" json:"platformLinkedAt,omitempty"`
	VerificationToken string             `bson:"verificationToken,omitempty" json:"-"`
	VerifiedAt        time.Time          `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	IsBlacklisted     bool               `bson:"isBlacklisted" json:"isBlacklisted"`
	LastActivity      time.Time          `bson:"lastActivity,omitempty" json:"lastActivity,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsVerified reports whether the user completed email verification
func (u *User) IsVerified() bool {
	return !u.VerifiedAt.IsZero()
}
