package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole distinguishes institution staff from the authority's reviewers.
type UserRole string

const (
	// RoleHEI marks institution staff: they submit forms and own rows.
	RoleHEI UserRole = "HEI"
	// RoleAdmin marks an education-authority reviewer scoped to a region.
	// A reviewer whose region is RegionAll is unrestricted.
	RoleAdmin UserRole = "ADMIN"
)

// User is an account able to sign in. HEI accounts are provisioned when a
// registration is approved.
type User struct {
	ID            string    `db:"id" json:"id"`
	Email         string    `db:"email" json:"email"`
	FullName      string    `db:"full_name" json:"full_name"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	Role          UserRole  `db:"role" json:"role"`
	Region        string    `db:"region" json:"region"`
	InstitutionID *string   `db:"institution_id" json:"institution_id,omitempty"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

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

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	FullName      string   `json:"full_name"`
	Role          UserRole `json:"role"`
	Region        string   `json:"region"`
	InstitutionID string   `json:"institution_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. Region and
// institution travel in the token so every request can rebuild the
// reviewer context without a user lookup.
type JWTClaims struct {
	UserID        string   `json:"user_id"`
	Role          UserRole `json:"role"`
	Email         string   `json:"email"`
	Region        string   `json:"region"`
	InstitutionID string   `json:"institution_id,omitempty"`
	jwt.RegisteredClaims
}
