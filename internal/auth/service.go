package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Affo25/imsdashboard/internal"
	"github.com/golang-jwt/jwt/v5"
)

// TokenServiceAPI issues and verifies session tokens.
type TokenServiceAPI interface {
	Issue(id internal.Identity) (string, error)
	Verify(tokenString string) (*Claims, error)
}

// JWTTokenService signs HS256 tokens with the process-wide secret.
type JWTTokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *JWTTokenService {
	return &JWTTokenService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and expiry checks.
func (s *JWTTokenService) WithClock(now func() time.Time) *JWTTokenService {
	s.now = now
	return s
}

// Issue creates a signed token for id, valid for TokenLifetime.
func (s *JWTTokenService) Issue(id internal.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(id, s.now()))
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the claims.
func (s *JWTTokenService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" || len(s.secret) == 0 {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromRequest reads a bearer Authorization header, falling back
// to the auth cookie. It returns "" when neither carries a token.
func ExtractTokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		const prefix = "Bearer "
		if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
			return strings.TrimSpace(authHeader[len(prefix):])
		}
	}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
