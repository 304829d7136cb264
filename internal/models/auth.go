package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access token payload issued by the school auth service.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
