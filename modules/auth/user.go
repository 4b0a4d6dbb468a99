package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Provider identifiers tracking how an account authenticates.
const (
	ProviderLocal = "local"
	ProviderAuth0 = "auth0"
)

// User represents an account. Local accounts carry a password hash and no
// federated id; Auth0 accounts carry a federated id and may lack a hash.
// The reset fields are both set or both absent.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	FullName     string        `bson:"fullname,omitempty"`
	Email        string        `bson:"email,omitempty"`
	PasswordHash []byte        `bson:"password,omitempty"`
	Auth0ID      string        `bson:"auth0_id,omitempty"`
	Provider     string        `bson:"provider"`
	Bio          string        `bson:"bio,omitempty"`
	ResetToken   string        `bson:"reset_token,omitempty"`
	ResetExpires *time.Time    `bson:"reset_expires,omitempty"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// Profile is the public view of a user returned by the API.
// The password hash and reset fields never leave the server.
type Profile struct {
	ID       string `json:"id"`
	FullName string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Provider string `json:"provider"`
}

// PublicProfile returns the fields safe to expose to clients.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Bio:      u.Bio,
		Provider: u.Provider,
	}
}

// HasLiveResetToken reports whether an unexpired reset token is outstanding.
func (u *User) HasLiveResetToken(now time.Time) bool {
	return u.ResetToken != "" && u.ResetExpires != nil && now.Before(*u.ResetExpires)
}
