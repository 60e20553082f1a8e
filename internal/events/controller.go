package events

import (
	"net/http"
	"strconv"

	"tiketix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller interface {
	CreateEvent(c *gin.Context)
	GetEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	GetAllEvents(c *gin.Context)
	GetAvailableEvents(c *gin.Context)
	ListTicketTypes(c *gin.Context)
	UpdateTicketType(c *gin.Context)
	ValidateConcertCategories(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	organizerID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), organizerID, req)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event created successfully", event, nil)
}

func (ctrl *controller) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	event, err := ctrl.service.GetEventByID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event retrieved successfully", event, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	organizerID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), eventID, organizerID, req)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event updated successfully", event, nil)
}

func (ctrl *controller) GetAllEvents(c *gin.Context) {
	var query EventListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.GetAllEvents(c.Request.Context(), query)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", result, nil)
}

func (ctrl *controller) GetAvailableEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	result, err := ctrl.service.GetAvailableEvents(c.Request.Context(), limit)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Available events retrieved successfully", gin.H{
		"events": result,
		"count":  len(result),
	}, nil)
}

func (ctrl *controller) ListTicketTypes(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	ticketTypes, err := ctrl.service.ListTicketTypes(c.Request.Context(), eventID)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket types retrieved successfully", gin.H{
		"ticket_types": ticketTypes,
		"count":        len(ticketTypes),
	}, nil)
}

func (ctrl *controller) UpdateTicketType(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	ticketTypeID, err := uuid.Parse(c.Param("ticketTypeId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid ticket type ID", nil, err.Error())
		return
	}

	var req UpdateTicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	ticketType, err := ctrl.service.UpdateTicketType(c.Request.Context(), eventID, ticketTypeID, req)
	if err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket type updated successfully", ticketType, nil)
}

// ValidateConcertCategories exposes the tier completeness check so the
// frontend can surface an incomplete concert before the user tries to book.
func (ctrl *controller) ValidateConcertCategories(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return
	}

	if err := ctrl.service.ValidateConcertCategories(c.Request.Context(), eventID); err != nil {
		response.RespondRejection(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Concert ticket categories are complete", gin.H{
		"complete": true,
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
