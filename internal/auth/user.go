package auth

// User is the already-resolved identity on whose behalf a request executes.
// A session holds at most one role; switching roles means re-authenticating
// as a new identity.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

// Authenticated reports whether the user carries a role at all.
func (u User) Authenticated() bool {
	return u.ID != "" && u.Role != ""
}
