package client

// TokenStore is the durable client-side slot holding the bearer token.
// Load returns "" when no token is persisted; absence means there is no
// session to resume.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}
