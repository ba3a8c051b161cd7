// Package api describes the identity service wire contract shared by the
// server transports and the client: request and response messages, the
// JSON gRPC codec and the hand-written gRPC service description.
package api

import "time"

// User is the public view of an account. It never carries credentials.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name,omitempty"`
}

type WhoAmIRequest struct{}

type CheckTokenRequest struct{}

type ListUsersRequest struct{}

// AuthResponse is returned by Register, Login and CheckToken.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type UserResponse struct {
	User User `json:"user"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
