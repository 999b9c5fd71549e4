package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// GenerateJWT signs a token for userID. The session service upstream issues the real
// tokens; this is used by local tooling and tests.
func GenerateJWT(userID string, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// DecodeJWT verifies an HMAC-signed token. Numeric claims are kept as json.Number so large
// user ids survive unchanged.
func DecodeJWT(tokenString string, secret string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{UseJSONNumber: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid or expired token")
}
