package services

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer struct {
	secret  []byte
	expires time.Duration
}

func NewTokenIssuer(secret string, expires time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expires: expires}
}

// Issue creates a signed HS256 token embedding the user id and role.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID.Hex(),
		"role": string(user.Role),
		"exp":  time.Now().Add(t.expires).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Expiry reports how long issued tokens remain valid, used to size the
// session cookie lifetime.
func (t *TokenIssuer) Expiry() time.Duration {
	return t.expires
}
