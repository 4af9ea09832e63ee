package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public view of an authenticated account.
type UserInfo struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	Email      string   `json:"email"`
	FullName   string   `json:"full_name"`
	Role       UserRole `json:"role"`
}

// JWTClaims are the custom claims embedded in access tokens. EmployeeID is
// the identity the evaluation engine uses for the rater-match check.
type JWTClaims struct {
	UserID     string   `json:"user_id"`
	EmployeeID string   `json:"employee_id"`
	Role       UserRole `json:"role"`
	Email      string   `json:"email"`
	jwt.RegisteredClaims
}
