// Package api holds the HTTP handlers and the route table.
package api

import (
	"net/http" // HTTP status codes

	"socks_stock/internal/metrics"
	"socks_stock/internal/middleware"
	"socks_stock/internal/service"

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus"          // Metrics registry
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Stock       *service.StockService
	Auth        *service.AuthService
	Users       *service.UserService
	Tokens      middleware.TokenVerifier
	Lookup      middleware.UserLookup
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTP
	Policy      *middleware.Policy // DefaultPolicy when nil
}

// NewRouter builds the gin engine: authentication gate, metrics, access policy, then routes
func NewRouter(d Deps) *gin.Engine {
	policy := d.Policy
	if policy == nil {
		policy = middleware.DefaultPolicy()
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery()) // Access log and panic recovery
	r.Use(middleware.Metrics(d.HTTPMetrics))
	r.Use(middleware.Authenticate(d.Tokens, d.Lookup))
	r.Use(middleware.Authorize(policy))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Auth routes
	auth := r.Group("/api/auth")
	auth.POST("/login", LoginHandler(d.Auth))                  // Login endpoint
	auth.POST("/register", RegisterHandler(d.Auth))            // Registration endpoint
	auth.POST("/register-admin", RegisterAdminHandler(d.Auth)) // Admin registration endpoint

	// Stock routes
	socks := r.Group("/api/socks")
	socks.GET("", QuantityHandler(d.Stock))            // Quantity query
	socks.POST("/income", IncomeHandler(d.Stock))      // Income endpoint
	socks.POST("/outcome", OutcomeHandler(d.Stock))    // Outcome endpoint
	socks.DELETE("/delete", DeleteAllHandler(d.Stock)) // Delete all endpoint

	// Admin routes
	admin := r.Group("/api/admin/users")
	admin.GET("", ListUsersHandler(d.Users))                            // List users
	admin.GET("/:id", GetUserHandler(d.Users))                          // User by id
	admin.GET("/username/:username", GetUserByUsernameHandler(d.Users)) // User by username
	admin.PUT("/:id/role", UpdateRoleHandler(d.Users))                  // Change role
	admin.DELETE("/:id", DeleteUserHandler(d.Users))                    // Delete user
	admin.GET("/check/:username", CheckUsernameHandler(d.Users))        // Username taken
	admin.GET("/role/:role", ListUsersByRoleHandler(d.Users))           // Users by role

	return r
}
