package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Govind-619/ShopSphere/models"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// ContextUserKey is where the authenticated principal is stored on the gin context
const ContextUserKey = "user"

// AuthMiddleware validates the bearer token issued by the identity service and
// stores the caller as a models.Principal under "user".
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.LogDebug("AuthMiddleware called")

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.LogError("Missing Authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.LogError("Invalid Bearer token format")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			utils.LogError("Invalid token: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			utils.LogError("Invalid token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		principal, ok := principalFromClaims(claims)
		if !ok {
			utils.LogError("User ID not found in token claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login for access"})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, principal)
		utils.LogDebug("User %s authenticated", principal.UserID)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			utils.LogError("User not found in context")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}
		if !principal.IsAdmin {
			utils.LogError("Non-admin user attempted admin access: %s", principal.UserID)
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller set by AuthMiddleware
func CurrentPrincipal(c *gin.Context) (models.Principal, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := val.(models.Principal)
	return principal, ok
}

func principalFromClaims(claims jwt.MapClaims) (models.Principal, bool) {
	var p models.Principal
	switch id := claims["user_id"].(type) {
	case string:
		p.UserID = id
	case float64:
		p.UserID = strconv.FormatUint(uint64(id), 10)
	}
	if p.UserID == "" {
		return p, false
	}
	p.Email, _ = claims["email"].(string)
	p.IsAdmin, _ = claims["is_admin"].(bool)
	return p, true
}
