package auth

import (
	"fmt"
	"time"

	"alujo/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind separates access, refresh and password-reset tokens so one can
// never be replayed as another.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
	TokenReset   TokenKind = "reset"
)

// Claims is the JWT payload attached to every token this service issues.
type Claims struct {
	UserID string    `json:"userId"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses the JWTs used for authentication.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	resetTTL      time.Duration
}

// NewTokenIssuer builds an issuer from the loaded configuration.
func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		resetTTL:      cfg.ResetTokenTTL,
	}
}

// AccessToken issues a short-lived token carried on API requests.
func (t *TokenIssuer) AccessToken(userID string) (string, error) {
	return t.sign(userID, TokenAccess, t.accessSecret, t.accessTTL)
}

// RefreshToken issues the long-lived token exchanged for new access tokens.
func (t *TokenIssuer) RefreshToken(userID string) (string, error) {
	return t.sign(userID, TokenRefresh, t.refreshSecret, t.refreshTTL)
}

// ResetToken issues the short-lived token embedded in password reset links.
// Signed with the access secret, matching how the reset flow verifies it.
func (t *TokenIssuer) ResetToken(userID string) (string, error) {
	return t.sign(userID, TokenReset, t.accessSecret, t.resetTTL)
}

func (t *TokenIssuer) sign(userID string, kind TokenKind, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccessToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, TokenAccess, t.accessSecret)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefreshToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, TokenRefresh, t.refreshSecret)
}

// ParseResetToken validates a password reset token and returns its claims.
func (t *TokenIssuer) ParseResetToken(tokenString string) (*Claims, error) {
	return t.parse(tokenString, TokenReset, t.accessSecret)
}

func (t *TokenIssuer) parse(tokenString string, kind TokenKind, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("token is not a %s token", kind)
	}
	return claims, nil
}
