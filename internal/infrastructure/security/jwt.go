// Package security provides JWT session token utilities
package security

import (
	"errors"
	"time"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/golang-jwt/jwt/v4"
)

// Session is the authenticated identity carried by a token.
type Session struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        user.Role `json:"role"`
}

// ValidateJWT validates a token and returns its claims.
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GenerateSessionToken creates a signed session token for a user.
func GenerateSessionToken(profile *user.Profile, jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":         profile.ID,
		"email":       profile.Email,
		"displayName": profile.DisplayName(),
		"tipo":        string(profile.Role),
		"iat":         time.Now().UTC().Unix(),
		"exp":         time.Now().UTC().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// SessionFromClaims extracts the session identity from validated claims.
func SessionFromClaims(claims jwt.MapClaims) *Session {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil
	}

	session := &Session{UserID: sub}
	session.Email, _ = claims["email"].(string)
	session.DisplayName, _ = claims["displayName"].(string)
	if tipo, ok := claims["tipo"].(string); ok {
		session.Role = user.Role(tipo)
	}
	return session
}
