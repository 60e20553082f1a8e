package events

import (
	"tiketix/internal/shared/middleware"
	"tiketix/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)                                // GET /api/v1/events
		publicEvents.GET("/available", controller.GetAvailableEvents)                // GET /api/v1/events/available
		publicEvents.GET("/:id", controller.GetEvent)                                // GET /api/v1/events/:id
		publicEvents.GET("/:id/ticket-types", controller.ListTicketTypes)            // GET /api/v1/events/:id/ticket-types
		publicEvents.GET("/:id/concert-rules", controller.ValidateConcertCategories) // GET /api/v1/events/:id/concert-rules
	}

	// Organizer routes - organizers and admins manage events
	manageEvents := router.Group("/manage/events")
	manageEvents.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
	{
		manageEvents.POST("", controller.CreateEvent)                                    // POST /api/v1/manage/events
		manageEvents.PUT("/:id", controller.UpdateEvent)                                 // PUT /api/v1/manage/events/:id
		manageEvents.PUT("/:id/ticket-types/:ticketTypeId", controller.UpdateTicketType) // PUT /api/v1/manage/events/:id/ticket-types/:ticketTypeId
	}
}
