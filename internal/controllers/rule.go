package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
)

type RuleController struct {
	ruleService services.RuleServiceInterface
	logger      *zap.Logger
}

func NewRuleController(ruleService services.RuleServiceInterface, logger *zap.Logger) *RuleController {
	return &RuleController{ruleService: ruleService, logger: logger}
}

func (ctrl *RuleController) List(c echo.Context) error {
	rules, err := ctrl.ruleService.List(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessList(c, "rules", rules)
}

func (ctrl *RuleController) GetByID(c echo.Context) error {
	rule, err := ctrl.ruleService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "rule", rule)
}

func (ctrl *RuleController) Create(c echo.Context) error {
	var req dto.RuleRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	rule, err := ctrl.ruleService.Create(c.Request().Context(), req.ToEntity())
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusCreated, "rule created", rule)
}

func (ctrl *RuleController) Update(c echo.Context) error {
	var req dto.RuleRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	rule := req.ToEntity()
	rule.ID = c.Param("id")
	updated, err := ctrl.ruleService.Update(c.Request().Context(), rule)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "rule updated", updated)
}

func (ctrl *RuleController) Delete(c echo.Context) error {
	if err := ctrl.ruleService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "rule deleted", c.Param("id"))
}
