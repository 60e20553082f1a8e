package seats

import (
	"tiketix/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller *Controller) {
	// Public: anyone can view the seat map while browsing
	public := router.Group("/events/:id/seats")
	{
		public.GET("", controller.ListEventSeats) // GET /api/v1/events/:id/seats
	}

	// Authenticated: seat selection pre-check
	authed := router.Group("/events/:id/seats")
	authed.Use(middleware.JWTAuth())
	{
		authed.POST("/select", controller.SelectSeats) // POST /api/v1/events/:id/seats/select
	}
}
