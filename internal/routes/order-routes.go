package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
	"lab-courier/pkg/middleware"
)

func registerOrderRoutes(g *echo.Group, ctrl *controllers.OrderController) {
	orders := g.Group("/orders")

	orders.GET("", ctrl.List)
	orders.GET("/:id", ctrl.GetByID)

	// Couriers drive the lifecycle of their own orders.
	orders.POST("/:id/status", ctrl.AppendStatus)
	orders.POST("/:id/notes", ctrl.AddNote)
	orders.POST("/:id/complete", ctrl.Complete)
	orders.POST("/:id/fail", ctrl.Fail)

	// Record management is back-office territory.
	orders.POST("", ctrl.Create, middleware.RequireManagerTier)
	orders.PUT("/:id", ctrl.Update, middleware.RequireManagerTier)
	orders.DELETE("/:id", ctrl.Delete, middleware.RequireManagerTier)
	orders.PUT("/:id/assign", ctrl.Assign, middleware.RequireManagerTier)
}
