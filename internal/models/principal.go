package models

import "github.com/golang-jwt/jwt/v5"

// Principal is the authenticated caller, rebuilt from the access token on every request.
type Principal struct {
	UserID  int64  `json:"userId"`
	Role    Role   `json:"role"`
	StaffID *int64 `json:"staffId,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID  int64  `json:"uid"`
	Role    string `json:"role"`
	StaffID *int64 `json:"staffId,omitempty"`
	jwt.RegisteredClaims
}
