package testutil

import (
	"time"

	"corpsuite/internal/auth/domain/model"

	"golang.org/x/crypto/bcrypt"
)

// UserFixture provides test data for the User model
type UserFixture struct{}

// NewUserFixture creates a new UserFixture instance
func NewUserFixture() *UserFixture {
	return &UserFixture{}
}

// ValidUser returns a valid user for testing
func (f *UserFixture) ValidUser() *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	return &model.User{
		ID:               "test-user-id-123",
		Email:            "test@example.com",
		PasswordHash:     string(hashedPassword),
		Role:             "user",
		SubscriptionPlan: "basic",
		IsActive:         true,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// UserWithEmail returns a user with a specific email
func (f *UserFixture) UserWithEmail(email string) *model.User {
	user := f.ValidUser()
	user.ID = "user-" + email
	user.Email = email
	return user
}

// UserWithPassword returns a user with a specific password
func (f *UserFixture) UserWithPassword(email, password string) *model.User {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := f.UserWithEmail(email)
	user.PasswordHash = string(hashedPassword)
	return user
}

// AdminUser returns a user with the admin role
func (f *UserFixture) AdminUser() *model.User {
	user := f.UserWithEmail("admin@example.com")
	user.Role = "admin"
	user.SubscriptionPlan = "enterprise"
	return user
}

// OAuthUser returns a user backed by a provider identity only
func (f *UserFixture) OAuthUser(provider, subjectID string) *model.User {
	user := f.ValidUser()
	user.ID = "oauth-" + provider + "-" + subjectID
	user.Email = subjectID + "@" + provider + ".example.com"
	user.PasswordHash = ""
	user.OAuthProvider = provider
	user.OAuthID = subjectID
	user.IsVerified = true
	return user
}

// Common test emails for validation testing
var (
	ValidEmails = []string{
		"test@example.com",
		"user.name@domain.co.uk",
		"user+tag@example.org",
		"firstname.lastname@company.com",
	}

	InvalidEmails = []string{
		"",
		"invalid-email",
		"@example.com",
		"test@",
		"test.example.com",
	}

	ValidPasswords = []string{
		"password123",
		"StrongP@ssw0rd",
		"MySecurePassword2024!",
		"12345678", // Minimum length
	}

	InvalidPasswords = []string{
		"",
		"123",
		"1234567",
		"short",
	}
)
