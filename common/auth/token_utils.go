package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const TokenTypeAccess = "access"

var ErrSecretNotConfigured = errors.New("JWT secret not configured")

// Claims is the access-token payload issued by the identity provider.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Type  string `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager validates and issues HMAC-signed access tokens.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Parse validates the signature, expiry and, when expectedType is non-empty, the typ claim.
func (m *TokenManager) Parse(tokenStr, expectedType string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, ErrSecretNotConfigured
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, fmt.Errorf("invalid token type")
	}
	return claims, nil
}

// Issue signs an access token for subject valid for ttl.
func (m *TokenManager) Issue(subject, email, role string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrSecretNotConfigured
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		Type:  TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
