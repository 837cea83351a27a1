package coreapi

import "fmt"

// Roles known to the core API.
const (
	RoleLandlord = "landlord"
	RoleTenant   = "tenant"
)

// LoginRequest is the credential payload for /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserProfile is the wire form of a portal user.
type UserProfile struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// LoginResult is the response payload for /auth/login/.
type LoginResult struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UnreadCountResponse is the response payload for /notifications/unread_count/.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// APIError is a structured error response from the core API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error"`
	Detail     string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coreapi: %s (%d): %s", e.Code, e.StatusCode, e.Detail)
}
