package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the payload of a ledger access token. The subject is the
// username; UserID scopes every ledger query.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
}

// OwnerID parses UserID.
func (c *AccessClaims) OwnerID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}
