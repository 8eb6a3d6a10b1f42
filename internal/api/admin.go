package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"socks_stock/internal/domain"
	"socks_stock/internal/service"

	"github.com/gin-gonic/gin" // Gin web framework
)

// ListUsersHandler returns every user
func ListUsersHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := users.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// GetUserHandler returns one user by id
func GetUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetUserByUsernameHandler returns one user by username
func GetUserByUsernameHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.FindByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// RoleQuery is the query of a role update
type RoleQuery struct {
	Role string `form:"role" binding:"required"` // USER or ADMIN
}

// UpdateRoleHandler sets the role given in the role query param
func UpdateRoleHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		var q RoleQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, "Required parameter 'role' is not present")
			return
		}
		role, ok := domain.ParseRole(q.Role)
		if !ok {
			badRequest(c, "Invalid role: expected USER or ADMIN")
			return
		}
		user, err := users.UpdateRole(c.Request.Context(), id, role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a user by id
func DeleteUserHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := userID(c)
		if !ok {
			return
		}
		if err := users.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}

// CheckUsernameHandler reports whether a username is taken
func CheckUsernameHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := users.Exists(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, exists)
	}
}

// ListUsersByRoleHandler returns the users holding a role
func ListUsersByRoleHandler(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := domain.ParseRole(c.Param("role"))
		if !ok {
			badRequest(c, "Invalid role: expected USER or ADMIN")
			return
		}
		list, err := users.ListByRole(c.Request.Context(), role)
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []domain.User{} // Serialize as [] rather than null
		}
		c.JSON(http.StatusOK, list)
	}
}

// userID parses the :id path param, writing 400 on failure
func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Invalid user id")
		return 0, false
	}
	return uint(id), true
}
