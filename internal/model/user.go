package model

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the authenticated identity.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// LoginInput holds the credentials submitted by the login form.
type LoginInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"min=6"`
}

// RegisterInput holds the fields of the sign-up form.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// AuthResult is the normalized outcome of a login or registration.
type AuthResult struct {
	User  User
	Token string
}
