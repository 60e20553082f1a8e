package bookings

import (
	"tiketix/internal/shared/middleware"
	"tiketix/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller) {
	// All booking routes require authentication
	bookingRoutes := router.Group("/bookings")
	bookingRoutes.Use(middleware.JWTAuth())
	{
		bookingRoutes.POST("", controller.BookTicket)                              // POST /api/v1/bookings
		bookingRoutes.POST("/validate-concert", controller.ValidateConcertBooking) // POST /api/v1/bookings/validate-concert
		bookingRoutes.GET("", controller.GetUserBookings)                          // GET /api/v1/bookings
		bookingRoutes.GET("/:id", controller.GetBooking)                           // GET /api/v1/bookings/:id
		bookingRoutes.DELETE("/:id", controller.CancelBooking)                     // DELETE /api/v1/bookings/:id
	}

	// Organizers and admins can inspect bookings per event
	eventBookings := router.Group("/manage/events/:id/bookings")
	eventBookings.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
	{
		eventBookings.GET("", controller.GetEventBookings) // GET /api/v1/manage/events/:id/bookings
	}
}
