package middleware

import (
	"context"
	"strings" // String manipulation

	"socks_stock/internal/domain"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

const principalKey = "principal"

// TokenVerifier resolves a bearer token to the username it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserLookup loads the current account behind a token.
type UserLookup interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   uint
	Username string
	Role     domain.Role
}

// IsAdmin reports whether the principal holds the admin authority.
func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// Authenticate attaches a principal for a valid bearer token. It never rejects a request;
// requests without a usable token continue unauthenticated and Authorize decides.
func Authenticate(tokens TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		username, err := tokens.Verify(tokenStr)
		if err != nil {
			c.Next() // Verify already logged the reason
			return
		}
		// Role is read from the store so changes apply without a new token
		user, err := users.FindByUsername(c.Request.Context(), username)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"username": username,
				"error":    err.Error(),
			}).Debug("Token subject not loadable")
			c.Next()
			return
		}
		c.Set(principalKey, Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
