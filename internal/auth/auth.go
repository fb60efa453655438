package auth

import (
	"errors"
	"time"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenLifetime is fixed; tokens are not refreshed.
	TokenLifetime = 7 * 24 * time.Hour

	// CookieName is the cookie carrying the session token for browser clients.
	CookieName = "auth-token"
)

// Claims represents JWT token claims
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() internal.Identity {
	return internal.Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}

func newClaims(id internal.Identity, issuedAt time.Time) *Claims {
	return &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserIDString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenLifetime)),
		},
	}
}

// ErrInvalidToken covers every verification failure: malformed, tampered,
// signed with another algorithm or expired.
var ErrInvalidToken = errors.New("invalid token")
