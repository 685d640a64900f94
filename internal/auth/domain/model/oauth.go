package model

import "errors"

var (
	ErrOAuthStateInvalid = errors.New("oauth state is invalid or expired")
	ErrOAuthNoEmail      = errors.New("oauth provider did not supply an email")
)

// OAuthProfile is the identity a provider returns after a successful
// code exchange.
type OAuthProfile struct {
	Provider   string
	SubjectID  string
	Email      string
	Name       string
	PictureURL string
}
