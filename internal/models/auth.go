package models

// AuthClaims is the decoded identity of an authenticated administrator.
type AuthClaims struct {
	UserID   string
	Username string
	Role     string
}
