package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthRequired.
const (
	ContextUserID   = "userID"
	ContextRole     = "role"
	ContextFullName = "fullName"
	ContextEmail    = "email"
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// signed with secret and restricts access to authenticated users only.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Parse and verify JWT signature (only HMAC allowed)
		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. Extract claims (payload)
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			setStringClaim(c, claims, ClaimID, ContextUserID)
			setStringClaim(c, claims, ClaimRole, ContextRole)
			setStringClaim(c, claims, ClaimFullName, ContextFullName)
			setStringClaim(c, claims, ClaimEmail, ContextEmail)
		}
		// 4. Pass control to the next handler
		c.Next()
	}
}

func setStringClaim(c *gin.Context, claims jwt.MapClaims, claim, key string) {
	if v, ok := claims[claim].(string); ok {
		c.Set(key, v)
	}
}

// RoleFrom returns the role placed on the context by AuthRequired, or "".
func RoleFrom(c *gin.Context) string {
	return c.GetString(ContextRole)
}
