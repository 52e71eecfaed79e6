package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"carrental/internal/domain"
	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func scheduleService(c *gin.Context) services.ScheduleService {
	return services.ScheduleService{
		Rules:     currentDeps().Rules,
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/schedules/bookings?start_date&end_date&status&vehicle_id
func GetScheduleBookings(c *gin.Context) {
	q := services.ScheduleQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
	}
	if v := strings.TrimSpace(c.Query("vehicle_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			RespondDomainError(c, domain.ValidationError{Field: "vehicle_id", Msg: "id tidak valid"})
			return
		}
		q.VehicleID = id
	}
	list, err := scheduleService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func CreateScheduleBooking(c *gin.Context) {
	var req services.ScheduleCreateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := scheduleService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func UpdateScheduleBooking(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req services.ScheduleUpdateRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := scheduleService(c).Update(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/schedules/calendar?month=YYYY-MM
func GetScheduleCalendar(c *gin.Context) {
	days, err := scheduleService(c).Calendar(c.Request.Context(), c.Query("month"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}
