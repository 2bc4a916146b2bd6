package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// OtpEntry represents the single live one-time code for an email address.
// Issuance upserts by email, so at most one entry exists per address.
//
// For the signup and login flows a successful verification deletes the entry.
// For the password reset flow it instead flips IsVerified and records
// VerifiedAt, leaving the entry as a short-lived proof consumed by the
// reset-password call.
type OtpEntry struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Email      string        `bson:"email"`
	OtpHash    string        `bson:"otp_hash"`
	ExpiresAt  time.Time     `bson:"expires_at"`
	Attempts   int           `bson:"attempts"`
	IsVerified bool          `bson:"is_verified"`
	VerifiedAt *time.Time    `bson:"verified_at,omitempty"`
	CreatedAt  time.Time     `bson:"created_at"`
	UpdatedAt  time.Time     `bson:"updated_at"`
}
