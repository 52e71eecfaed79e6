package handlers

import (
	"net/http"

	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/customers?q&page&limit
func GetCustomers(c *gin.Context) {
	list, err := services.CustomerService{}.List(c.Request.Context(), c.Query("q"), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetCustomerByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := services.CustomerService{}.Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
