package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultProfilePicture is assigned to accounts created without one.
const DefaultProfilePicture = "https://i.pinimg.com/736x/39/8f/da/398fdab4318b3baa65d36baf5ab3fab4.jpg"

// User represents an account in the system. AccessToken and RefreshToken are
// the last issued pair, cached for the refresh flow; they are not authoritative
// for validation, which relies solely on the token's own expiry claim.
type User struct {
	ID                bson.ObjectID `bson:"_id,omitempty"`
	Username          string        `bson:"username"`
	Email             string        `bson:"email"`
	PasswordHash      string        `bson:"password_hash"`
	ApiKeyHash        string        `bson:"api_key_hash,omitempty"`
	ProfilePictureURL string        `bson:"profile_picture_url,omitempty"`
	AccessToken       string        `bson:"access_token,omitempty"`
	RefreshToken      string        `bson:"refresh_token,omitempty"`
	CreatedAt         time.Time     `bson:"created_at"`
	UpdatedAt         time.Time     `bson:"updated_at"`
}

// PublicUser is the client-safe projection of a User. It never carries
// password or API key material.
type PublicUser struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePicture,omitempty"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID.Hex(),
		Username:          u.Username,
		Email:             u.Email,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}
