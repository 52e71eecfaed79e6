package handlers

import (
	"net/http"

	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func vehicleService(c *gin.Context) services.VehicleService {
	return services.VehicleService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/vehicles?q&status&type&page&limit
func GetVehicles(c *gin.Context) {
	page, err := vehicleService(c).List(c.Request.Context(), services.VehicleQuery{
		Q:      c.Query("q"),
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 20),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func GetVehicleByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := vehicleService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func CreateVehicle(c *gin.Context) {
	var in services.VehicleInput
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := vehicleService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func UpdateVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var in services.VehicleInput
	if !BindJSONOrError(c, &in) {
		return
	}
	v, err := vehicleService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type vehicleStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/vehicles/:id/status
func UpdateVehicleStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req vehicleStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	v, err := vehicleService(c).SetStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func DeleteVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := vehicleService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "kendaraan dihapus"})
}
