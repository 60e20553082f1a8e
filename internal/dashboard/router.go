package dashboard

import (
	"tiketix/internal/shared/middleware"
	"tiketix/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupDashboardRoutes(router *gin.RouterGroup, controller *Controller) {
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.JWTAuth())
	{
		organizer := dashboardRoutes.Group("")
		organizer.Use(middleware.RequireRoles(string(users.RoleOrganizer), string(users.RoleAdmin)))
		{
			organizer.GET("", controller.GetOrganizerStats) // GET /api/v1/dashboard
		}

		admin := dashboardRoutes.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/platform", controller.GetPlatformStats) // GET /api/v1/dashboard/platform
		}
	}
}
