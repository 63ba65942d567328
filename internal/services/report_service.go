package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lab-courier/internal/orderstore"
	"lab-courier/pkg/constants"
)

// ReportServiceInterface renders the range report as a spreadsheet for the
// back office.
type ReportServiceInterface interface {
	ExportRangeReport(ctx context.Context, filter ReportFilter) (*excelize.File, error)
}

type reportService struct {
	orders    *orderstore.Store
	analytics AnalyticsServiceInterface
	logger    *zap.Logger
}

func NewReportService(
	orders *orderstore.Store,
	analytics AnalyticsServiceInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{orders: orders, analytics: analytics, logger: logger}
}

func (s *reportService) ExportRangeReport(ctx context.Context, filter ReportFilter) (*excelize.File, error) {
	report, err := s.analytics.RangeReport(ctx, filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Order #", "Patient", "Physician", "Completed At", "Tubes", "Hours", "Miles"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "G1", headerStyle)
	}

	row := 2
	for i := range orders {
		if !filter.matches(&orders[i]) {
			continue
		}
		orderDate := orders[i].OrderDate
		if orderDate.Before(filter.From) || orderDate.After(filter.To) {
			continue
		}

		tubes := 0
		for _, tube := range orders[i].CollectionTubes {
			tubes += tube.Quantity
		}

		completedCell := ""
		hours := 0.0
		completedAt, hasCompleted := orders[i].FirstStatusTime(constants.StatusCompleted)
		if hasCompleted {
			completedCell = completedAt.Format("2006-01-02 15:04")
			if startedAt, hasStarted := orders[i].FirstStatusTime(constants.StatusInProgress); hasStarted {
				hours = completedAt.Sub(startedAt).Hours()
			}
		}

		values := []interface{}{
			orders[i].OrderNumber,
			orders[i].PatientName,
			orders[i].ReferringPhysicianName,
			completedCell,
			tubes,
			hours,
			orders[i].Distance,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	// Totals under a blank separator row.
	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "TOTAL")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), report.TotalTubes)
	f.SetCellValue(sheet, fmt.Sprintf("F%d", row), report.TotalHours)
	f.SetCellValue(sheet, fmt.Sprintf("G%d", row), report.TotalMileage)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+1), fmt.Sprintf("Orders: %d", report.Orders))
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row+2),
		fmt.Sprintf("%s to %s", filter.From.Format("2006-01-02"), filter.To.Format("2006-01-02")))

	return f, nil
}
