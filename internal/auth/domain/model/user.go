package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// User represents an account in the system. JSON tags follow the API's
// snake_case wire format; the password hash never leaves the server.
type User struct {
	ID                  string             `json:"user_id" bson:"id,omitempty"`
	ObjectID            primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	Email               string             `json:"email" bson:"email"`
	PasswordHash        string             `json:"-" bson:"password_hash,omitempty"`
	Role                string             `json:"role" bson:"role"`
	FirstName           string             `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName            string             `json:"last_name,omitempty" bson:"last_name,omitempty"`
	CompanyName         string             `json:"company_name,omitempty" bson:"company_name,omitempty"`
	ProfilePictureURL   string             `json:"profile_picture_url,omitempty" bson:"profile_picture_url,omitempty"`
	SubscriptionPlan    string             `json:"subscription_plan,omitempty" bson:"subscription_plan,omitempty"`
	SubscriptionEndDate string             `json:"subscription_end_date,omitempty" bson:"subscription_end_date,omitempty"`
	OAuthProvider       string             `json:"oauth_provider,omitempty" bson:"oauth_provider,omitempty"`
	OAuthID             string             `json:"-" bson:"oauth_id,omitempty"`
	IsActive            bool               `json:"is_active" bson:"is_active"`
	IsVerified          bool               `json:"is_verified" bson:"is_verified"`
	CreatedAt           time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at" bson:"updated_at"`
}

// ValidateFields checks the invariants every stored user must satisfy.
func (u *User) ValidateFields() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role == "" {
		return errors.New("role is required")
	}
	if u.PasswordHash == "" && u.OAuthProvider == "" {
		return errors.New("user must have a password or an oauth identity")
	}
	return nil
}

// ProfileUpdate carries the editable profile fields. Empty fields are
// left untouched on the stored user.
type ProfileUpdate struct {
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// Apply copies the non-empty patch fields onto the user.
func (p ProfileUpdate) Apply(u *User) {
	if p.FirstName != "" {
		u.FirstName = p.FirstName
	}
	if p.LastName != "" {
		u.LastName = p.LastName
	}
	if p.CompanyName != "" {
		u.CompanyName = p.CompanyName
	}
	if p.ProfilePictureURL != "" {
		u.ProfilePictureURL = p.ProfilePictureURL
	}
}
