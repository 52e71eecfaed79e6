package api

import (
	"log"
	stdhttp "net/http"

	intconfig "carrental/internal/config"
	"carrental/internal/domain"
	h "carrental/internal/http/handlers"
	"carrental/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.Metrics(),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)

		// Portal booking publik, tanpa login
		public := api.Group("/public")
		mountPublic(public)

		// Dashboard admin
		admin := api.Group("")
		admin.Use(middleware.RequireAuth(middleware.TokenParserFunc(h.ParseToken)))
		writers := middleware.RequireRoles(domain.RoleAdmin, domain.RoleStaff)
		adminOnly := middleware.RequireRoles(domain.RoleAdmin)

		admin.GET("/auth/me", h.Me)
		admin.GET("/roles", h.GetRoles)

		vehicles := admin.Group("/vehicles")
		mountVehicles(vehicles, writers)

		schedules := admin.Group("/schedules")
		mountSchedules(schedules, writers)

		dashboard := admin.Group("/dashboard")
		dashboard.GET("/kpi", h.GetDashboardKPI)
		dashboard.GET("/recent-bookings", h.GetRecentBookings)

		reports := admin.Group("/reports")
		reports.GET("/financial-summary", h.GetFinancialSummary)
		reports.GET("/financial-summary.pdf", h.GetFinancialSummaryPDF)
		reports.GET("/vehicle-utilization", h.GetVehicleUtilization)

		customers := admin.Group("/customers")
		customers.GET("", h.GetCustomers)
		customers.GET("/:id", h.GetCustomerByID)

		users := admin.Group("/users")
		mountUsers(users, adminOnly)
	}

	return r
}

func mountPublic(g *gin.RouterGroup) {
	g.GET("/vehicles", h.SearchVehicles)
	g.GET("/vehicles/:id", h.GetPublicVehicle)
	g.POST("/bookings/quote", h.QuoteBooking)
	g.POST("/bookings", h.CreatePublicBooking)
	g.GET("/bookings/:code", h.GetBookingConfirmation)
	g.GET("/bookings/:code/invoice", h.GetBookingInvoicePDF)
}

func mountVehicles(g *gin.RouterGroup, writers gin.HandlerFunc) {
	g.GET("", h.GetVehicles)
	g.GET("/:id", h.GetVehicleByID)
	g.POST("", writers, h.CreateVehicle)
	g.PUT("/:id", writers, h.UpdateVehicle)
	g.PUT("/:id/status", writers, h.UpdateVehicleStatus)
	g.DELETE("/:id", writers, h.DeleteVehicle)
}

func mountSchedules(g *gin.RouterGroup, writers gin.HandlerFunc) {
	g.GET("/bookings", h.GetScheduleBookings)
	g.POST("/bookings", writers, h.CreateScheduleBooking)
	g.PUT("/bookings/:id", writers, h.UpdateScheduleBooking)
	g.GET("/calendar", h.GetScheduleCalendar)
}

func mountUsers(g *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	g.GET("", h.GetUsers)
	g.GET("/:id", h.GetUserByID)
	g.POST("", adminOnly, h.CreateUser)
	g.PUT("/:id", adminOnly, h.UpdateUser)
	g.DELETE("/:id", adminOnly, h.DeleteUser)
}
