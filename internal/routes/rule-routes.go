package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
	"lab-courier/pkg/middleware"
)

func registerRuleRoutes(g *echo.Group, ctrl *controllers.RuleController) {
	rules := g.Group("/rules", middleware.RequireManagerTier)
	rules.GET("", ctrl.List)
	rules.GET("/:id", ctrl.GetByID)
	rules.POST("", ctrl.Create)
	rules.PUT("/:id", ctrl.Update)
	rules.DELETE("/:id", ctrl.Delete)
}
