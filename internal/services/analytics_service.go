package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/orderstore"
	"lab-courier/internal/repositories"
	"lab-courier/pkg/constants"
)

// ReportFilter bounds a range report. The date range is inclusive; the
// optional id/name filters are exact matches and combine with AND.
type ReportFilter struct {
	From time.Time
	To   time.Time

	ReferringPhysicianID string
	PhlebotomistID       string
	SalesName            string
}

// RangeReport aggregates the orders placed over a date range.
type RangeReport struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Orders       int            `json:"orders"`
	TubesByName  map[string]int `json:"tubes_by_name"`
	TotalTubes   int            `json:"total_tubes"`
	TotalHours   float64        `json:"total_hours"`
	TotalMileage float64        `json:"total_mileage"`
}

// DailyStats describes one calendar day: the orders placed that day and
// every status transition stamped that day. An order that moved twice
// contributes two transitions.
type DailyStats struct {
	Date             time.Time      `json:"date"`
	Orders           int            `json:"orders"`
	TotalTests       int            `json:"total_tests"`
	TotalTubes       int            `json:"total_tubes"`
	TotalDistance    float64        `json:"total_distance"`
	Transitions      map[string]int `json:"transitions"`
	TotalTransitions int            `json:"total_transitions"`
}

// WeeklyCounts buckets the orders of one week by the weekday of their order
// date, Sunday first.
type WeeklyCounts struct {
	WeekStart time.Time `json:"week_start"`
	ByWeekday [7]int    `json:"by_weekday"`
	Total     int       `json:"total"`
}

// UserStats counts active users per role.
type UserStats struct {
	ByRole map[string]int `json:"by_role"`
	Total  int            `json:"total"`
}

type AnalyticsServiceInterface interface {
	RangeReport(ctx context.Context, filter ReportFilter) (*RangeReport, error)
	DailyStats(ctx context.Context, day time.Time) (*DailyStats, error)
	WeeklyCounts(ctx context.Context, ref time.Time) (*WeeklyCounts, error)
	UserStats(ctx context.Context) (*UserStats, error)
}

type analyticsService struct {
	orders   *orderstore.Store
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewAnalyticsService(
	orders *orderstore.Store,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) AnalyticsServiceInterface {
	return &analyticsService{orders: orders, userRepo: userRepo, logger: logger}
}

func (f ReportFilter) matches(order *entities.Order) bool {
	if f.ReferringPhysicianID != "" && order.ReferringPhysicianID != f.ReferringPhysicianID {
		return false
	}
	if f.PhlebotomistID != "" && !order.IsAssignedTo(f.PhlebotomistID) {
		return false
	}
	if f.SalesName != "" && order.SalesName != f.SalesName {
		return false
	}
	return true
}

// RangeReport includes an order when its order date falls inside the range
// and the optional filters match. Every matching order counts toward the
// total, its tubes and its stored mileage (zero when never computed),
// completed or not; only the hours term needs the first In-Progress /
// first Completed pair, summed as the raw difference. Sums stay floating
// point; rounding is the caller's concern.
func (s *analyticsService) RangeReport(ctx context.Context, filter ReportFilter) (*RangeReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &RangeReport{
		From:        filter.From,
		To:          filter.To,
		TubesByName: make(map[string]int),
	}
	for i := range orders {
		if !filter.matches(&orders[i]) {
			continue
		}
		orderDate := orders[i].OrderDate
		if orderDate.Before(filter.From) || orderDate.After(filter.To) {
			continue
		}

		report.Orders++
		for _, tube := range orders[i].CollectionTubes {
			report.TubesByName[tube.Name] += tube.Quantity
			report.TotalTubes += tube.Quantity
		}
		report.TotalMileage += orders[i].Distance

		completedAt, hasCompleted := orders[i].FirstStatusTime(constants.StatusCompleted)
		startedAt, hasStarted := orders[i].FirstStatusTime(constants.StatusInProgress)
		if hasCompleted && hasStarted {
			report.TotalHours += completedAt.Sub(startedAt).Hours()
		}
	}
	return report, nil
}

// DailyStats counts EVERY status entry stamped on the given day, not just
// each order's current status. Order-level totals (tests, tubes, distance)
// cover the orders placed that day.
func (s *analyticsService) DailyStats(ctx context.Context, day time.Time) (*DailyStats, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	dayStart := startOfDay(day)
	dayEnd := dayStart.AddDate(0, 0, 1)
	inDay := func(t time.Time) bool {
		return !t.Before(dayStart) && t.Before(dayEnd)
	}

	stats := &DailyStats{Date: dayStart, Transitions: make(map[string]int)}
	for i := range orders {
		if inDay(orders[i].OrderDate) {
			stats.Orders++
			stats.TotalTests += len(orders[i].TestName)
			for _, tube := range orders[i].CollectionTubes {
				stats.TotalTubes += tube.Quantity
			}
			stats.TotalDistance += orders[i].Distance
		}
		for _, entry := range orders[i].Status {
			if !inDay(entry.Timestamp) {
				continue
			}
			stats.Transitions[entry.Status]++
			stats.TotalTransitions++
		}
	}
	return stats, nil
}

// WeeklyCounts covers the Sunday-to-Saturday week containing ref, bucketing
// orders by the weekday of their order date.
func (s *analyticsService) WeeklyCounts(ctx context.Context, ref time.Time) (*WeeklyCounts, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}

	weekStart := startOfDay(ref).AddDate(0, 0, -int(ref.UTC().Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)

	weekly := &WeeklyCounts{WeekStart: weekStart}
	for i := range orders {
		orderDate := orders[i].OrderDate
		if orderDate.Before(weekStart) || !orderDate.Before(weekEnd) {
			continue
		}
		weekly.ByWeekday[int(orderDate.Weekday())]++
		weekly.Total++
	}
	return weekly, nil
}

func (s *analyticsService) UserStats(ctx context.Context) (*UserStats, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{ByRole: make(map[string]int)}
	for i := range users {
		if !users[i].IsActive {
			continue
		}
		stats.ByRole[users[i].Role.String()]++
		stats.Total++
	}
	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
