package middleware

import (
	"time"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/golang-jwt/jwt"
)

// IssueToken signs an HS256 token carrying the principal. The identity
// service owns real logins; this is used by tests and local tooling.
func IssueToken(secret string, p models.Principal, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  p.UserID,
		"email":    p.Email,
		"is_admin": p.IsAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
