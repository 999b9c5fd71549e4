package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

func extractJwtClaims(c *gin.Context, secret string) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		return nil, false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format, expected: Bearer <token>"})
		return nil, false
	}

	tokenString := strings.Trim(parts[1], "\"' ")

	claims, err := utils.DecodeJWT(tokenString, secret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		return nil, false
	}

	return claims, true
}

// JWTAuth resolves the caller from a bearer token issued by the session service.
// Handlers decide themselves what to do when no user id could be read from the claims.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c, secret)
		if !ok {
			return
		}

		if userID := claimString(claims["user_id"]); userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// claimString renders a user id claim the way the issuer wrote it. Upstream ids may be
// strings or JSON numbers.
func claimString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// UserID returns the authenticated user id, or "" when none was resolved.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
