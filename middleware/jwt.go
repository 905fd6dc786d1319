package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every issued token. The subject is the stable
// session id, never the display name (names are not unique).
type sessionClaims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// GenerateToken issues the JWT handed out at login. It is the only
// credential the socket handshake accepts.
func GenerateToken(sessionID string) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

func parseToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}

func stripBearer(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", errors.New("Authorization header must use the Bearer scheme")
	}
	return strings.TrimPrefix(header, prefix), nil
}

// JWT_decoder extracts and verifies the bearer token of a REST request,
// returning the authenticated session id.
func JWT_decoder(c *gin.Context) (string, error) {
	raw, err := stripBearer(c.GetHeader("Authorization"))
	if err != nil {
		return "", err
	}
	return parseToken(raw)
}

// Socketio_JWT_decoder verifies the token a socket.io client sent in its
// handshake auth data, returning the authenticated session id.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	header, _ := authData["authorization"].(string)
	raw, err := stripBearer(header)
	if err != nil {
		return "", err
	}
	return parseToken(raw)
}
