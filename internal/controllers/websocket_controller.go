package controllers

import (
	"net/http"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/pkg/api"
	"lab-courier/pkg/contextkeys"
	apperrors "lab-courier/pkg/errors"
	"lab-courier/pkg/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WebsocketController struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebsocketController(hub *websocket.Hub, logger *zap.Logger) *WebsocketController {
	return &WebsocketController{hub: hub, logger: logger}
}

// Serve upgrades the connection and attaches it to the hub under the
// authenticated user's id.
func (ctrl *WebsocketController) Serve(c echo.Context) error {
	userID, ok := c.Request().Context().Value(contextkeys.UserIDKey).(string)
	if !ok {
		return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		ctrl.logger.Warn("websocket upgrade failed", zap.Error(err))
		return err
	}

	client := websocket.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
	return nil
}
