package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/veloracart/ecommerce-api/models"
)

const TokenTTL = 24 * time.Hour

// IssueToken signs a session JWT carrying the user id and role claims the
// middleware relies on.
func IssueToken(secret, userID string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
