package routes

import (
	"github.com/labstack/echo/v4"

	"lab-courier/internal/controllers"
	"lab-courier/pkg/middleware"
)

// Controllers groups everything the router mounts.
type Controllers struct {
	Auth      *controllers.AuthController
	Order     *controllers.OrderController
	Rule      *controllers.RuleController
	User      *controllers.UserController
	Analytics *controllers.AnalyticsController
	Report    *controllers.ReportController
	Websocket *controllers.WebsocketController
}

func InitRouter(e *echo.Echo, c Controllers, authMW *middleware.AuthMiddleware, uploadsDir string) {
	api := e.Group("/api/v1")

	registerAuthRoutes(api, c.Auth)

	protected := api.Group("", authMW.Auth)
	registerOrderRoutes(protected, c.Order)
	registerRuleRoutes(protected, c.Rule)
	registerUserRoutes(protected, c.User)
	registerAnalyticsRoutes(protected, c.Analytics, c.Report)

	protected.GET("/ws", c.Websocket.Serve)

	e.Static("/uploads", uploadsDir)
}
