package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
	"lab-courier/pkg/middleware"
)

func registerUserRoutes(g *echo.Group, ctrl *controllers.UserController) {
	users := g.Group("/users")

	users.GET("/me", ctrl.Me)
	users.PUT("/me/location", ctrl.UpdateLocation)
	users.PUT("/me/fcm-token", ctrl.UpdateFCMToken)

	users.GET("", ctrl.List, middleware.RequireManagerTier)
	users.GET("/:id", ctrl.GetByID, middleware.RequireManagerTier)
	users.DELETE("/:id", ctrl.Deactivate, middleware.RequireManagerTier)
}
