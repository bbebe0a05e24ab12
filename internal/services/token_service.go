package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and validates HS256 bearer tokens carrying the
// subject's username and an absolute expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given subject, expiring after the service TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(s.ttl).Unix(),
	})

	return token.SignedString(s.secret)
}

// Validate returns the token's subject. Malformed, tampered and expired
// tokens all come back as ErrInvalidToken; no detail is leaked to callers.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	subject, ok := claims["sub"].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}
