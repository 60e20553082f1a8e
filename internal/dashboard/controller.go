package dashboard

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

// GetOrganizerStats handles GET /api/v1/dashboard
func (c *Controller) GetOrganizerStats(ctx *gin.Context) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}
	organizerID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return
	}

	stats, err := c.service.GetOrganizerStats(ctx.Request.Context(), organizerID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load dashboard", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dashboard retrieved successfully", stats, nil)
}

// GetPlatformStats handles GET /api/v1/dashboard/platform
func (c *Controller) GetPlatformStats(ctx *gin.Context) {
	stats, err := c.service.GetPlatformStats(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to load platform stats", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Platform stats retrieved successfully", stats, nil)
}
