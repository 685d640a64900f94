package model

// User is the client-side profile of the authenticated principal, resolved
// from the backend. Optional fields stay empty when the backend omits them.
type User struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	Role                string `json:"role"`
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	CompanyName         string `json:"companyName,omitempty"`
	SubscriptionPlan    string `json:"subscriptionPlan,omitempty"`
	SubscriptionEndDate string `json:"subscriptionEndDate,omitempty"`
	ProfilePictureURL   string `json:"profilePictureUrl,omitempty"`
	IsActive            bool   `json:"isActive"`
	OAuthProvider       string `json:"oauthProvider,omitempty"`
	OAuthID             string `json:"oauthId,omitempty"`
}

// WireFields is a decoded snake_case JSON object from the backend.
type WireFields = map[string]interface{}

// UserFromWire builds a User from a backend response object. The backend is
// inconsistent about the ID field name, so user_id is preferred and id is the
// fallback.
func UserFromWire(fields WireFields) *User {
	u := &User{
		ID:                  wireString(fields, "user_id"),
		Email:               wireString(fields, "email"),
		Role:                wireString(fields, "role"),
		FirstName:           wireString(fields, "first_name"),
		LastName:            wireString(fields, "last_name"),
		CompanyName:         wireString(fields, "company_name"),
		SubscriptionPlan:    wireString(fields, "subscription_plan"),
		SubscriptionEndDate: wireString(fields, "subscription_end_date"),
		ProfilePictureURL:   wireString(fields, "profile_picture_url"),
		OAuthProvider:       wireString(fields, "oauth_provider"),
		OAuthID:             wireString(fields, "oauth_id"),
		IsActive:            true,
	}
	if u.ID == "" {
		u.ID = wireString(fields, "id")
	}
	return u
}

// MergeWire shallow-merges a partial backend response into an existing user.
// Fields present in the response win over existing values; absent fields are
// kept. The receiver is not mutated.
func MergeWire(u User, fields WireFields) User {
	merged := u

	assignIfPresent(fields, "user_id", &merged.ID)
	assignIfPresent(fields, "id", &merged.ID)
	assignIfPresent(fields, "email", &merged.Email)
	assignIfPresent(fields, "role", &merged.Role)
	assignIfPresent(fields, "first_name", &merged.FirstName)
	assignIfPresent(fields, "last_name", &merged.LastName)
	assignIfPresent(fields, "company_name", &merged.CompanyName)
	assignIfPresent(fields, "subscription_plan", &merged.SubscriptionPlan)
	assignIfPresent(fields, "subscription_end_date", &merged.SubscriptionEndDate)
	assignIfPresent(fields, "profile_picture_url", &merged.ProfilePictureURL)
	assignIfPresent(fields, "oauth_provider", &merged.OAuthProvider)
	assignIfPresent(fields, "oauth_id", &merged.OAuthID)

	return merged
}

// ProfilePatch carries the partial fields a profile update may change.
type ProfilePatch struct {
	FirstName         string `json:"first_name,omitempty"`
	LastName          string `json:"last_name,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// UserDetails are the optional registration fields collected by the form.
type UserDetails struct {
	FirstName   string
	LastName    string
	CompanyName string
}

func wireString(fields WireFields, key string) string {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func assignIfPresent(fields WireFields, key string, dst *string) {
	if v, ok := fields[key]; ok {
		if s, ok := v.(string); ok {
			*dst = s
		}
	}
}
