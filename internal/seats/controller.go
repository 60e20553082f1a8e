package seats

import (
	"net/http"

	"tiketix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListEventSeats handles GET /api/v1/events/:id/seats
func (c *Controller) ListEventSeats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event ID", nil, nil)
		return
	}

	seatList, err := c.service.ListEventSeats(ctx.Request.Context(), eventID)
	if err != nil {
		response.RespondRejection(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats retrieved successfully", gin.H{
		"seats": seatList,
		"count": len(seatList),
	}, nil)
}

// SelectSeats handles POST /api/v1/events/:id/seats/select
func (c *Controller) SelectSeats(ctx *gin.Context) {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "invalid event ID", nil, nil)
		return
	}

	userID, ok := currentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req SelectSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	result, err := c.service.SelectSeminarSeats(ctx.Request.Context(), eventID, userID, req.SeatNumbers)
	if err != nil {
		response.RespondRejection(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seats selected successfully", result, nil)
}

// currentUserID extracts the authenticated user's id set by the JWT middleware.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
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
