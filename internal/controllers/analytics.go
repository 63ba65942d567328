package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
)

const dateLayout = "2006-01-02"

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
	logger           *zap.Logger
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService, logger: logger}
}

// RangeReport aggregates completed work between ?from= and ?to= inclusive.
func (ctrl *AnalyticsController) RangeReport(c echo.Context) error {
	var req dto.ReportRangeRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	report, err := ctrl.analyticsService.RangeReport(c.Request().Context(), reportFilter(req))
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "range report", report)
}

// Daily counts every status transition of one day; defaults to today.
func (ctrl *AnalyticsController) Daily(c echo.Context) error {
	var req dto.DayRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	day := time.Now().UTC()
	if req.Date != "" {
		day, _ = time.ParseInLocation(dateLayout, req.Date, time.UTC)
	}

	stats, err := ctrl.analyticsService.DailyStats(c.Request().Context(), day)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "daily stats", stats)
}

// Weekly buckets the orders of the week containing ?date= (default today)
// by order-date weekday, Sunday first.
func (ctrl *AnalyticsController) Weekly(c echo.Context) error {
	var req dto.DayRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	ref := time.Now().UTC()
	if req.Date != "" {
		ref, _ = time.ParseInLocation(dateLayout, req.Date, time.UTC)
	}

	weekly, err := ctrl.analyticsService.WeeklyCounts(c.Request().Context(), ref)
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "weekly stats", weekly)
}

// reportFilter converts validated request dates; the upper bound covers the
// whole end day.
func reportFilter(req dto.ReportRangeRequest) services.ReportFilter {
	from, _ := time.ParseInLocation(dateLayout, req.From, time.UTC)
	to, _ := time.ParseInLocation(dateLayout, req.To, time.UTC)
	return services.ReportFilter{
		From:                 from,
		To:                   to.AddDate(0, 0, 1).Add(-time.Second),
		ReferringPhysicianID: req.ReferringPhysicianID,
		PhlebotomistID:       req.PhlebotomistID,
		SalesName:            req.SalesName,
	}
}

func (ctrl *AnalyticsController) Users(c echo.Context) error {
	stats, err := ctrl.analyticsService.UserStats(c.Request().Context())
	if err != nil {
		return api.ErrorResponse(c, err)
	}
	return api.SuccessOne(c, http.StatusOK, "user stats", stats)
}
