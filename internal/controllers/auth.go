package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/entities"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
	"lab-courier/pkg/constants"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	user := &entities.User{
		Username:    req.Username,
		Email:       req.Email,
		Role:        constants.Role(req.Role),
		PhoneNumber: req.PhoneNumber,
	}
	created, err := ctrl.authService.Register(c.Request().Context(), user, req.Password)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	return api.SuccessOne(c, http.StatusCreated, "user registered", dto.UserResponseFromEntity(created))
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	user, tokens, err := ctrl.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	return api.SuccessOne(c, http.StatusOK, "login successful", dto.LoginResponse{
		User:         dto.UserResponseFromEntity(user),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (ctrl *AuthController) Refresh(c echo.Context) error {
	var req dto.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	tokens, err := ctrl.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "token refreshed", tokens)
}
