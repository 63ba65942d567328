package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
	"lab-courier/pkg/contextkeys"
	apperrors "lab-courier/pkg/errors"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) List(c echo.Context) error {
	var users []dto.UserResponse

	if role := c.QueryParam("role"); role != "" {
		found, err := ctrl.userService.ListByRole(c.Request().Context(), role)
		if err != nil {
			return api.ErrorResponse(c, err)
		}
		for i := range found {
			users = append(users, dto.UserResponseFromEntity(&found[i]))
		}
		return api.SuccessList(c, "users", users)
	}

	found, err := ctrl.userService.List(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	for i := range found {
		users = append(users, dto.UserResponseFromEntity(&found[i]))
	}
	return api.SuccessList(c, "users", users)
}

func (ctrl *UserController) GetByID(c echo.Context) error {
	user, err := ctrl.userService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "user", dto.UserResponseFromEntity(user))
}

func (ctrl *UserController) Me(c echo.Context) error {
	ctx := c.Request().Context()
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok {
		return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
	}

	user, err := ctrl.userService.GetByID(ctx, userID)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "profile", dto.UserResponseFromEntity(user))
}

// UpdateLocation accepts the caller's own live coordinate.
func (ctrl *UserController) UpdateLocation(c echo.Context) error {
	var req dto.UpdateLocationRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	ctx := c.Request().Context()
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok {
		return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
	}

	if err := ctrl.userService.UpdateLocation(ctx, userID, req.Coordinate()); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "location updated", req)
}

func (ctrl *UserController) UpdateFCMToken(c echo.Context) error {
	var req dto.UpdateFCMTokenRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	ctx := c.Request().Context()
	userID, ok := ctx.Value(contextkeys.UserIDKey).(string)
	if !ok {
		return api.ErrorResponse(c, apperrors.ErrUserIDNotFoundInContext)
	}

	if err := ctrl.userService.UpdateFCMToken(ctx, userID, req.Token); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "push token updated", userID)
}

func (ctrl *UserController) Deactivate(c echo.Context) error {
	if err := ctrl.userService.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "user deactivated", c.Param("id"))
}
