package api

import (
	"net/http" // HTTP status codes

	"socks_stock/internal/errs"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// respondError writes a domain failure as a plain-text body with its mapped status
func respondError(c *gin.Context, err error) {
	typed := errs.As(err)
	if typed == nil || typed.Kind == errs.KindInternal {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		}).Error("Request failed")
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.String(errs.Status(typed.Kind), typed.Message)
}

// badRequest is the framework-level rejection for unparseable input
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
