package middleware

import (
	"github.com/labstack/echo/v4"

	"lab-courier/pkg/api"
	"lab-courier/pkg/constants"
	"lab-courier/pkg/contextkeys"
	apperrors "lab-courier/pkg/errors"
)

// RequireManagerTier gates organization-wide endpoints (dashboards, rules,
// user administration) to admin and manager roles. Must run after Auth.
func RequireManagerTier(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		roleValue, ok := c.Request().Context().Value(contextkeys.RoleKey).(string)
		if !ok {
			return api.ErrorResponse(c, apperrors.ErrUnauthorized)
		}
		if !constants.Role(roleValue).IsManagerTier() {
			return api.ErrorResponse(c, apperrors.ErrForbidden)
		}
		return next(c)
	}
}
