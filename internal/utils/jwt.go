package utils

import (
	"errors" // Error inspection
	"time"   // Time for token expiration

	"socks_stock/internal/errs" // Tagged errors

	"github.com/golang-jwt/jwt/v5" // JWT library
	"github.com/sirupsen/logrus"   // Logging rejected tokens
)

// TokenProvider issues and verifies HS256 tokens bound to a username
type TokenProvider struct {
	secret []byte           // Symmetric signing key
	ttl    time.Duration    // Token lifetime
	now    func() time.Time // Clock, replaceable in tests
}

// NewTokenProvider creates a TokenProvider with the given secret and lifetime
func NewTokenProvider(secret string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue creates a signed token whose subject is the username
func (p *TokenProvider) Issue(username string) (string, error) {
	now := p.now()
	// Standard claims only: the role is looked up per request
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(p.secret)                        // Sign the token with the secret
}

// Verify checks signature and expiry and returns the token subject
func (p *TokenProvider) Verify(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	keyFunc := func(token *jwt.Token) (any, error) {
		return p.secret, nil // Return the secret key for validation
	}
	_, err := jwt.ParseWithClaims(tokenStr, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), // HS256 only
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		logrus.WithField("reason", rejectReason(err)).Debug("Token rejected")
		return "", errs.Wrap(errs.KindInvalidToken, "Invalid or expired token", err)
	}
	if claims.Subject == "" {
		logrus.WithField("reason", "empty subject").Debug("Token rejected")
		return "", errs.New(errs.KindInvalidToken, "Invalid or expired token")
	}
	return claims.Subject, nil
}

// rejectReason classifies a parse failure for logs
func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return "unverifiable"
	default:
		return err.Error()
	}
}
