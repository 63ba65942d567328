package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lab-courier/internal/entities"
	"lab-courier/internal/orderstore"
	"lab-courier/internal/repositories"
	"lab-courier/pkg/constants"
	"lab-courier/pkg/docstore"
)

func newAnalyticsFixture(t *testing.T) (*orderstore.Store, docstore.Store, AnalyticsServiceInterface) {
	t.Helper()
	docs := docstore.NewMemoryStore()
	orders := orderstore.New(docs, zap.NewNop())
	userRepo := repositories.NewUserRepository(docs, zap.NewNop())
	return orders, docs, NewAnalyticsService(orders, userRepo, zap.NewNop())
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

type orderSpec struct {
	number    string
	orderDate time.Time
	history   []entities.OrderStatus
	tubes     []entities.CollectionTube
	miles     float64
	physician string
	assignee  string
	sales     string
}

func createOrder(t *testing.T, orders *orderstore.Store, spec orderSpec) {
	t.Helper()
	order := testOrder(spec.number)
	if !spec.orderDate.IsZero() {
		order.OrderDate = spec.orderDate
	}
	order.Status = spec.history
	order.CollectionTubes = spec.tubes
	order.Distance = spec.miles
	order.ReferringPhysicianID = spec.physician
	if spec.assignee != "" {
		order.Phlebotomist = []string{spec.assignee}
	}
	order.SalesName = spec.sales
	_, err := orders.Create(context.Background(), order)
	require.NoError(t, err)
}

func TestRangeReport(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	// Placed and completed inside the range: 2 hours of work, 3 tubes, 5 miles.
	createOrder(t, orders, orderSpec{
		number:    "ORD-1",
		orderDate: day(2026, 3, 10, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 10, 9)},
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 10, 11)},
		},
		tubes: []entities.CollectionTube{{ID: "t1", Name: "EDTA", Quantity: 3}},
		miles: 5,
	})

	// The first In-Progress/Completed pair counts (1 hour), not later repeats.
	createOrder(t, orders, orderSpec{
		number:    "ORD-2",
		orderDate: day(2026, 3, 11, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 11, 8)},
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 11, 10)},
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 11, 9)},
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 11, 15)},
		},
		tubes: []entities.CollectionTube{{ID: "t2", Name: "SST", Quantity: 2}},
		miles: 1.5,
	})

	// Placed after the range: excluded even though the work happened inside it.
	createOrder(t, orders, orderSpec{
		number:    "ORD-3",
		orderDate: day(2026, 4, 1, 9),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 20, 9)},
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 20, 11)},
		},
		tubes: []entities.CollectionTube{{ID: "t3", Name: "EDTA", Quantity: 9}},
		miles: 99,
	})

	// Still open: counts toward orders, tubes and mileage, contributes no hours.
	createOrder(t, orders, orderSpec{
		number:    "ORD-4",
		orderDate: day(2026, 3, 12, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 12, 9)},
		},
		tubes: []entities.CollectionTube{{ID: "t4", Name: "EDTA", Quantity: 2}},
		miles: 7,
	})

	report, err := analytics.RangeReport(context.Background(), ReportFilter{
		From: day(2026, 3, 1, 0),
		To:   day(2026, 3, 31, 23),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Orders)
	assert.Equal(t, 7, report.TotalTubes)
	assert.Equal(t, map[string]int{"EDTA": 5, "SST": 2}, report.TubesByName)
	assert.InDelta(t, 3.0, report.TotalHours, 1e-9) // 2h + 1h
	assert.InDelta(t, 13.5, report.TotalMileage, 1e-9)
}

func TestRangeReportCountsOpenOrders(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	createOrder(t, orders, orderSpec{
		number:    "ORD-1",
		orderDate: day(2026, 3, 12, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 12, 9)},
		},
		tubes: []entities.CollectionTube{{ID: "t1", Name: "EDTA", Quantity: 2}},
		miles: 7,
	})

	report, err := analytics.RangeReport(context.Background(), ReportFilter{
		From: day(2026, 3, 1, 0),
		To:   day(2026, 3, 31, 23),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Orders)
	assert.Equal(t, 2, report.TotalTubes)
	assert.InDelta(t, 7.0, report.TotalMileage, 1e-9)
	assert.Zero(t, report.TotalHours)
}

func TestRangeReportHoursAreRawDifference(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	// Completed stamped before In-Progress: the difference is summed as-is.
	createOrder(t, orders, orderSpec{
		number:    "ORD-1",
		orderDate: day(2026, 3, 10, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 10, 9)},
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 10, 11)},
		},
	})

	report, err := analytics.RangeReport(context.Background(), ReportFilter{
		From: day(2026, 3, 1, 0),
		To:   day(2026, 3, 31, 23),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Orders)
	assert.InDelta(t, -2.0, report.TotalHours, 1e-9)
}

func TestRangeReportFilters(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	placed := day(2026, 3, 10, 8)
	createOrder(t, orders, orderSpec{number: "ORD-1", orderDate: placed, physician: "doc-1", assignee: "u1", sales: "Ann"})
	createOrder(t, orders, orderSpec{number: "ORD-2", orderDate: placed, physician: "doc-2", assignee: "u1", sales: "Bob"})
	createOrder(t, orders, orderSpec{number: "ORD-3", orderDate: placed, physician: "doc-1", assignee: "u2", sales: "Ann"})

	base := ReportFilter{From: day(2026, 3, 1, 0), To: day(2026, 3, 31, 23)}

	byPhysician := base
	byPhysician.ReferringPhysicianID = "doc-1"
	report, err := analytics.RangeReport(context.Background(), byPhysician)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Orders)

	combined := base
	combined.ReferringPhysicianID = "doc-1"
	combined.PhlebotomistID = "u1"
	combined.SalesName = "Ann"
	report, err = analytics.RangeReport(context.Background(), combined)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Orders)
}

func TestDailyStatsCountsEveryTransition(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	createOrder(t, orders, orderSpec{
		number:    "ORD-1",
		orderDate: day(2026, 3, 10, 8),
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 10, 9)},
			{Status: constants.StatusFailed, Timestamp: day(2026, 3, 10, 10)},
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 10, 11)},
			{Status: constants.StatusCompleted, Timestamp: day(2026, 3, 11, 9)}, // next day
		},
		tubes: []entities.CollectionTube{{ID: "t1", Name: "EDTA", Quantity: 2}},
		miles: 4,
	})
	createOrder(t, orders, orderSpec{
		number:    "ORD-2",
		orderDate: day(2026, 3, 9, 8), // placed the day before
		history: []entities.OrderStatus{
			{Status: constants.StatusInProgress, Timestamp: day(2026, 3, 10, 14)},
		},
	})

	stats, err := analytics.DailyStats(context.Background(), day(2026, 3, 10, 17))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalTransitions)
	assert.Equal(t, 3, stats.Transitions[constants.StatusInProgress])
	assert.Equal(t, 1, stats.Transitions[constants.StatusFailed])
	assert.Zero(t, stats.Transitions[constants.StatusCompleted])

	// Order-level totals only cover orders placed that day.
	assert.Equal(t, 1, stats.Orders)
	assert.Equal(t, 1, stats.TotalTests)
	assert.Equal(t, 2, stats.TotalTubes)
	assert.InDelta(t, 4.0, stats.TotalDistance, 1e-9)
}

func TestWeeklyCountsBucketsSundayFirst(t *testing.T) {
	orders, _, analytics := newAnalyticsFixture(t)

	// 2026-03-08 is a Sunday; 03-10 a Tuesday; 03-15 the next Sunday.
	createOrder(t, orders, orderSpec{number: "ORD-SUN", orderDate: day(2026, 3, 8, 9)})
	createOrder(t, orders, orderSpec{number: "ORD-TUE-A", orderDate: day(2026, 3, 10, 9)})
	createOrder(t, orders, orderSpec{number: "ORD-TUE-B", orderDate: day(2026, 3, 10, 16)})
	createOrder(t, orders, orderSpec{number: "ORD-NEXT-WEEK", orderDate: day(2026, 3, 15, 9)})

	weekly, err := analytics.WeeklyCounts(context.Background(), day(2026, 3, 12, 12))
	require.NoError(t, err)

	assert.Equal(t, day(2026, 3, 8, 0), weekly.WeekStart)
	assert.Equal(t, [7]int{1, 0, 2, 0, 0, 0, 0}, weekly.ByWeekday)
	assert.Equal(t, 3, weekly.Total)
}

func TestUserStatsCountsActivePerRole(t *testing.T) {
	_, docs, analytics := newAnalyticsFixture(t)
	ctx := context.Background()

	users := []entities.User{
		{Username: "a", Role: constants.RolePhlebotomist, IsActive: true},
		{Username: "b", Role: constants.RolePhlebotomist, IsActive: true},
		{Username: "c", Role: constants.RoleLogistic, IsActive: true},
		{Username: "d", Role: constants.RolePhlebotomist, IsActive: false},
	}
	for i, u := range users {
		require.NoError(t, docs.Set(ctx, "users/u"+string(rune('0'+i)), u.Document()))
	}

	stats, err := analytics.UserStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByRole[constants.RolePhlebotomist.String()])
	assert.Equal(t, 1, stats.ByRole[constants.RoleLogistic.String()])
}
