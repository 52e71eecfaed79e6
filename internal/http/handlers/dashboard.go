package handlers

import (
	"net/http"

	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func dashboardService(c *gin.Context) services.DashboardService {
	return services.DashboardService{
		Cache:     currentDeps().KPICache,
		RequestID: middleware.GetRequestID(c),
	}
}

func GetDashboardKPI(c *gin.Context) {
	k, err := dashboardService(c).KPI(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

// GET /api/dashboard/recent-bookings?limit=
func GetRecentBookings(c *gin.Context) {
	list, err := dashboardService(c).RecentBookings(c.Request.Context(), queryInt(c, "limit", 0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
