package handlers

import (
	"net/http"
	"strings"

	"carrental/internal/http/middleware"
	"carrental/internal/services"

	"github.com/gin-gonic/gin"
)

func checkoutService(c *gin.Context) services.CheckoutService {
	return services.CheckoutService{
		Rules:     currentDeps().Rules,
		RequestID: middleware.GetRequestID(c),
	}
}

func searchQuery(c *gin.Context) services.SearchQuery {
	return services.SearchQuery{
		PickupDate:  c.Query("pickup_date"),
		ReturnDate:  c.Query("return_date"),
		Type:        c.Query("type"),
		ServiceType: c.Query("service_type"),
	}
}

// GET /api/public/vehicles?pickup_date&return_date&type&service_type
func SearchVehicles(c *gin.Context) {
	offers, err := checkoutService(c).Search(c.Request.Context(), searchQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

// GET /api/public/vehicles/:id
func GetPublicVehicle(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	d, err := checkoutService(c).Detail(c.Request.Context(), id, searchQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/public/bookings/quote
func QuoteBooking(c *gin.Context) {
	var req services.RentalRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	q, err := checkoutService(c).Quote(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/public/bookings
func CreatePublicBooking(c *gin.Context) {
	var req services.CheckoutRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	conf, err := checkoutService(c).Checkout(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, conf)
}

// GET /api/public/bookings/:code
func GetBookingConfirmation(c *gin.Context) {
	conf, err := checkoutService(c).Confirmation(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, conf)
}

// GET /api/public/bookings/:code/invoice
func GetBookingInvoicePDF(c *gin.Context) {
	svc := services.DocsService{RequestID: middleware.GetRequestID(c)}
	data, filename, err := svc.BookingInvoice(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, data, filename)
}
