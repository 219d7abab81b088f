// Package models defines the data types shared by the session layer,
// the guards and the front end: user records and session state.
package models

import "time"

// Role describes the access level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a stored user record. Password is kept in clear text: the store
// is a local, client-side file and authentication here is not a security
// boundary. This matches the system being replaced.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Role      Role      `json:"role"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns the user with the password redacted.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsBlocked: u.IsBlocked,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser is a user record without the password. This is the only user
// shape that ever leaves the session layer.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials carry a login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionState is the single source of truth observed by guards and the
// front end. Invariant: IsAuthenticated is true iff CurrentUser != nil and
// Token != "". CurrentUser is a snapshot taken at login; later mutations of
// the underlying user record do not propagate into it.
type SessionState struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	CurrentUser     *PublicUser `json:"currentUser"`
	Token           string      `json:"token"`
}

// Anonymous returns the cleared session state.
func Anonymous() SessionState {
	return SessionState{}
}
