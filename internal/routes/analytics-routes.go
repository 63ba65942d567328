package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
	"lab-courier/pkg/middleware"
)

func registerAnalyticsRoutes(g *echo.Group, analytics *controllers.AnalyticsController, report *controllers.ReportController) {
	stats := g.Group("/analytics", middleware.RequireManagerTier)
	stats.GET("/range", analytics.RangeReport)
	stats.GET("/daily", analytics.Daily)
	stats.GET("/weekly", analytics.Weekly)
	stats.GET("/users", analytics.Users)
	stats.GET("/export", report.Export)
}
