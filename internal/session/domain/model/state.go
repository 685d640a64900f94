package model

// State is a snapshot of the session at one point in time. Token is the
// persisted bearer credential ("" when absent), User the profile resolved
// against it, and Loading is true only while a resolution attempt is in
// flight.
type State struct {
	Token   string
	User    *User
	Loading bool
}

// IsAuthenticated reports whether the session holds both a token and a
// resolved user. A token without a resolved user is not authenticated; that
// guards against stale or invalid tokens.
func (s State) IsAuthenticated() bool {
	return s.User != nil && s.Token != ""
}
