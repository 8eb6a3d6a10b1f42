package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"socks_stock/internal/domain"
	"socks_stock/internal/service"

	"github.com/gin-gonic/gin" // Gin web framework
)

// QuantityHandler returns the total of socks matching color, operation and cottonPart
func QuantityHandler(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		op, ok := domain.ParseOperation(c.Query("operation"))
		if !ok {
			badRequest(c, "Invalid operation: expected moreThan, lessThan or equal")
			return
		}
		var cottonPart *int // Absent means invalid, reported by the service
		if raw, present := c.GetQuery("cottonPart"); present {
			v, err := strconv.Atoi(raw)
			if err != nil {
				badRequest(c, "Invalid cottonPart: must be an integer")
				return
			}
			cottonPart = &v
		}
		total, err := stock.Quantity(c.Request.Context(), c.Query("color"), op, cottonPart)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, total)
	}
}

// IncomeHandler registers socks arriving at the warehouse
func IncomeHandler(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request") // Malformed JSON
			return
		}
		batch, err := stock.Income(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, batch)
	}
}

// OutcomeHandler registers socks leaving the warehouse
func OutcomeHandler(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request") // Malformed JSON
			return
		}
		batch, err := stock.Outcome(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

// DeleteAllHandler empties the stock
func DeleteAllHandler(stock *service.StockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := stock.DeleteAll(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}
