package api

import (
	"net/http" // HTTP status codes

	"socks_stock/internal/domain"
	"socks_stock/internal/service"

	"github.com/gin-gonic/gin" // Gin web framework
)

// LoginRequest is the JSON body of a login
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginHandler exchanges credentials for a bearer token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request") // Missing body or fields
			return
		}
		resp, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RegisterHandler creates a standard user from form or query params
func RegisterHandler(auth *service.AuthService) gin.HandlerFunc {
	return registerHandler(auth, domain.RoleUser)
}

// RegisterAdminHandler creates an admin user; the route itself is admin-only
func RegisterAdminHandler(auth *service.AuthService) gin.HandlerFunc {
	return registerHandler(auth, domain.RoleAdmin)
}

func registerHandler(auth *service.AuthService, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := formOrQuery(c, "username")
		if !ok {
			badRequest(c, "Required parameter 'username' is not present")
			return
		}
		password, ok := formOrQuery(c, "password")
		if !ok {
			badRequest(c, "Required parameter 'password' is not present")
			return
		}
		resp, err := auth.Register(c.Request.Context(), username, password, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// formOrQuery reads a request parameter from the form body, then the query string
func formOrQuery(c *gin.Context, key string) (string, bool) {
	if v, ok := c.GetPostForm(key); ok {
		return v, true
	}
	return c.GetQuery(key)
}
