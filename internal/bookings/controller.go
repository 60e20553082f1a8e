package bookings

import (
	"net/http"

	"tiketix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	BookTicket(c *gin.Context)
	ValidateConcertBooking(c *gin.Context)
	CancelBooking(c *gin.Context)
	GetBooking(c *gin.Context)
	GetUserBookings(c *gin.Context)
	GetEventBookings(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) BookTicket(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.BookTicket(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

// ValidateConcertBooking lets the frontend check a concert purchase before
// submitting it, surfacing cap and quota problems early.
func (ctrl *controller) ValidateConcertBooking(c *gin.Context) {
	var req ValidateConcertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.ValidateConcertBooking(c.Request.Context(), userID, req); err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking would be accepted", gin.H{
		"valid": true,
	}, nil)
}

func (ctrl *controller) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.CancelBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

func (ctrl *controller) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

func (ctrl *controller) GetUserBookings(c *gin.Context) {
	var query BookingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.GetUserBookings(c.Request.Context(), userID, query)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

func (ctrl *controller) GetEventBookings(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetEventBookings(c.Request.Context(), eventID)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event bookings retrieved successfully", gin.H{
		"bookings": result,
		"count":    len(result),
	}, nil)
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
