package models

import "strings"

// Role is the backend role of an account.
type Role string

// Roles as they travel on the wire. PROFESSOR is the instructor role.
const (
	RoleInstructor Role = "PROFESSOR"
	RoleStudent    Role = "STUDENT"
)

// DefaultDisplayName is used for users rebuilt from token claims, which carry no name.
const DefaultDisplayName = "Usuário"

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleInstructor || r == RoleStudent
}

// Label returns the display label used by the original screens.
func (r Role) Label() string {
	switch r {
	case RoleInstructor:
		return "Professor"
	case RoleStudent:
		return "Estudante"
	}
	return string(r)
}

// User is an account as returned by /users or rebuilt from token claims.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) GetID() string { return u.ID }

// IsInstructor reports whether u holds the instructor role.
func (u *User) IsInstructor() bool {
	return u != nil && u.Role == RoleInstructor
}

// Initials returns the avatar label shown on the profile screen.
func (u *User) Initials() string {
	if u == nil || u.Name == "" {
		return "US"
	}
	r := []rune(u.Name)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// AuthorName is the author string stamped on posts written by u.
func (u *User) AuthorName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// UpdateUserRequest is the body of PUT /users/{id}. Password is only sent when set.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Password string `json:"password,omitempty"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the answer of POST /auth/login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
}
