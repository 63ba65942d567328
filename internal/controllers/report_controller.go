package controllers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-courier/internal/dto"
	"lab-courier/internal/services"
	"lab-courier/pkg/api"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

// Export streams the range report as an XLSX download.
func (ctrl *ReportController) Export(c echo.Context) error {
	var req dto.ReportRangeRequest
	if err := c.Bind(&req); err != nil {
		return api.ErrorResponse(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return api.ErrorResponse(c, err)
	}

	f, err := ctrl.reportService.ExportRangeReport(c.Request().Context(), reportFilter(req))
	if err != nil {
		return api.ErrorResponse(c, err)
	}

	fileName := fmt.Sprintf("orders-report-%s-%s.xlsx", req.From, req.To)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, fileName))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := f.Write(c.Response()); err != nil {
		ctrl.logger.Error("report streaming failed", zap.Error(err))
		return err
	}
	return nil
}
