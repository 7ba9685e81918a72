package analytics

import (
	"testing"
	"time"

	"elbuensabor/internal/models"
)

var testNow = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func order(created time.Time, status string, total int64, items ...models.OrderItem) models.Order {
	return models.Order{
		Status:      status,
		TotalAmount: total,
		Items:       items,
		CreatedAt:   created,
	}
}

func TestGrowth(t *testing.T) {
	cases := []struct {
		current, previous int64
		want              float64
	}{
		{0, 0, 0},
		{100, 0, 100},
		{150, 100, 50},
		{50, 100, -50},
	}
	for _, tc := range cases {
		if got := Growth(tc.current, tc.previous); got != tc.want {
			t.Fatalf("Growth(%d, %d) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestDailyEmptyOrders(t *testing.T) {
	stats := Daily(nil, testNow, "", 3)
	if stats.Revenue != 0 || stats.OrdersCompleted != 0 || stats.OrdersPending != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
	if stats.AverageOrderValue != 0 {
		t.Fatalf("expected averageOrderValue=0, got %d", stats.AverageOrderValue)
	}
	if stats.PeakHour != -1 {
		t.Fatalf("expected no peak hour, got %d", stats.PeakHour)
	}
	if len(stats.TopSellingItems) != 0 {
		t.Fatalf("expected empty ranking, got %+v", stats.TopSellingItems)
	}
}

func TestWeeklyAndMonthlyEmptyOrders(t *testing.T) {
	weekly := Weekly(nil, testNow, "")
	if weekly.Revenue != 0 || weekly.OrdersCompleted != 0 || weekly.Growth != 0 {
		t.Fatalf("expected zeroed weekly stats, got %+v", weekly)
	}

	monthly := Monthly(nil, testNow, "", 1000)
	if monthly.Revenue != 0 || monthly.Growth != 0 || monthly.GoalProgress.Percentage != 0 {
		t.Fatalf("expected zeroed monthly stats, got %+v", monthly)
	}
}

func TestDailyRevenueCountsOnlyDelivered(t *testing.T) {
	orders := []models.Order{
		order(testNow.Add(-2*time.Hour), models.StatusDelivered, 8399),
		order(testNow.Add(-1*time.Hour), models.StatusPending, 5000),
	}

	stats := Daily(orders, testNow, "", 3)
	if stats.Revenue != 8399 {
		t.Fatalf("expected revenue=8399, got %d", stats.Revenue)
	}
	if stats.OrdersCompleted != 1 || stats.OrdersPending != 1 {
		t.Fatalf("expected 1 completed / 1 pending, got %d / %d", stats.OrdersCompleted, stats.OrdersPending)
	}
	if stats.AverageOrderValue != 8399 {
		t.Fatalf("expected averageOrderValue=8399, got %d", stats.AverageOrderValue)
	}
}

func TestDailyPendingIncludesInFlightStatuses(t *testing.T) {
	orders := []models.Order{
		order(testNow, models.StatusConfirmed, 1000),
		order(testNow, models.StatusPreparing, 1000),
		order(testNow, models.StatusOutForDelivery, 1000),
		order(testNow, models.StatusCancelled, 1000),
	}

	stats := Daily(orders, testNow, "", 3)
	if stats.OrdersPending != 3 {
		t.Fatalf("expected 3 pending (cancelled excluded), got %d", stats.OrdersPending)
	}
}

func TestDailyTopSellingItemsGroupsByName(t *testing.T) {
	orders := []models.Order{
		order(testNow, models.StatusDelivered, 7500,
			models.OrderItem{Name: "Empanada de Pollo", Price: 2500, Quantity: 3}),
		order(testNow, models.StatusDelivered, 5000,
			models.OrderItem{Name: "Empanada de Pollo", Price: 2500, Quantity: 2}),
		order(testNow, models.StatusDelivered, 3500,
			models.OrderItem{Name: "Coca Cola", Price: 3500, Quantity: 1}),
	}

	stats := Daily(orders, testNow, "", 3)
	if len(stats.TopSellingItems) != 2 {
		t.Fatalf("expected 2 ranked items, got %d", len(stats.TopSellingItems))
	}
	top := stats.TopSellingItems[0]
	if top.Name != "Empanada de Pollo" || top.Quantity != 5 || top.Revenue != 5*2500 {
		t.Fatalf("unexpected top seller: %+v", top)
	}
}

func TestDailyTopSellingItemsTruncatesToTopN(t *testing.T) {
	orders := []models.Order{
		order(testNow, models.StatusDelivered, 0,
			models.OrderItem{Name: "A", Price: 100, Quantity: 5},
			models.OrderItem{Name: "B", Price: 100, Quantity: 4},
			models.OrderItem{Name: "C", Price: 100, Quantity: 3},
			models.OrderItem{Name: "D", Price: 100, Quantity: 2}),
	}

	stats := Daily(orders, testNow, "", 3)
	if len(stats.TopSellingItems) != 3 {
		t.Fatalf("expected ranking truncated to 3, got %d", len(stats.TopSellingItems))
	}
	if stats.TopSellingItems[0].Name != "A" || stats.TopSellingItems[2].Name != "C" {
		t.Fatalf("unexpected ranking order: %+v", stats.TopSellingItems)
	}
}

func TestDailyPeakHourCountsAllOrders(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
	}
	orders := []models.Order{
		order(at(9), models.StatusDelivered, 1000),
		order(at(13), models.StatusPending, 1000),
		order(at(13), models.StatusCancelled, 1000),
	}

	stats := Daily(orders, testNow, "", 3)
	if stats.PeakHour != 13 {
		t.Fatalf("expected peak hour 13, got %d", stats.PeakHour)
	}
}

func TestDailyPeakHourTieResolvesToEarliestHour(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2026, 3, 14, hour, 0, 0, 0, time.UTC)
	}
	orders := []models.Order{
		order(at(19), models.StatusPending, 1000),
		order(at(11), models.StatusPending, 1000),
	}

	stats := Daily(orders, testNow, "", 3)
	if stats.PeakHour != 11 {
		t.Fatalf("expected earliest tied hour 11, got %d", stats.PeakHour)
	}
}

func TestDailyBranchFilter(t *testing.T) {
	norte := order(testNow, models.StatusDelivered, 3000)
	norte.Branch = models.BranchNorte
	sur := order(testNow, models.StatusDelivered, 7000)
	sur.Branch = models.BranchSur

	stats := Daily([]models.Order{norte, sur}, testNow, models.BranchNorte, 3)
	if stats.Revenue != 3000 || stats.OrdersCompleted != 1 {
		t.Fatalf("expected only Norte revenue, got %+v", stats)
	}
}

func TestDailyExcludesUnparsableTimestamps(t *testing.T) {
	orders := []models.Order{
		{Status: models.StatusDelivered, TotalAmount: 9999}, // zero CreatedAt
		order(testNow, models.StatusDelivered, 5000),
	}

	stats := Daily(orders, testNow, "", 3)
	if stats.Revenue != 5000 || stats.OrdersCompleted != 1 {
		t.Fatalf("expected order without timestamp to be excluded, got %+v", stats)
	}
}

func TestWeeklyRollingWindowAndGrowth(t *testing.T) {
	orders := []models.Order{
		order(testNow.AddDate(0, 0, -2), models.StatusDelivered, 150),
		order(testNow.AddDate(0, 0, -10), models.StatusDelivered, 100),
		// Outside both windows.
		order(testNow.AddDate(0, 0, -20), models.StatusDelivered, 100000),
		// In window but not delivered.
		order(testNow.AddDate(0, 0, -1), models.StatusPending, 777),
	}

	stats := Weekly(orders, testNow, "")
	if stats.Revenue != 150 || stats.OrdersCompleted != 1 {
		t.Fatalf("unexpected weekly stats: %+v", stats)
	}
	if stats.Growth != 50 {
		t.Fatalf("expected growth 50%%, got %v", stats.Growth)
	}
}

func TestMonthlyCalendarWindowAndGoal(t *testing.T) {
	thisMonth := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

	orders := []models.Order{
		order(thisMonth, models.StatusDelivered, 400),
		order(lastMonth, models.StatusDelivered, 200),
	}

	stats := Monthly(orders, testNow, "", 1000)
	if stats.Revenue != 400 {
		t.Fatalf("expected revenue 400, got %d", stats.Revenue)
	}
	if stats.Growth != 100 {
		t.Fatalf("expected growth 100%%, got %v", stats.Growth)
	}
	gp := stats.GoalProgress
	if gp.Target != 1000 || gp.Achieved != 400 || gp.Percentage != 40 {
		t.Fatalf("unexpected goal progress: %+v", gp)
	}
}

func TestMonthlyPreviousMonthAcrossYearBoundary(t *testing.T) {
	january := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	december := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)

	orders := []models.Order{
		order(january, models.StatusDelivered, 300),
		order(december, models.StatusDelivered, 600),
	}

	stats := Monthly(orders, january, "", 0)
	if stats.Revenue != 300 {
		t.Fatalf("expected revenue 300, got %d", stats.Revenue)
	}
	if stats.Growth != -50 {
		t.Fatalf("expected growth -50%%, got %v", stats.Growth)
	}
}
