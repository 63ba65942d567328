package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
)

func registerAuthRoutes(g *echo.Group, ctrl *controllers.AuthController) {
	auth := g.Group("/auth")
	auth.POST("/register", ctrl.Register)
	auth.POST("/login", ctrl.Login)
	auth.POST("/refresh", ctrl.Refresh)
}
