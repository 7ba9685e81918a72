package analytics

import (
	"sort"
	"time"

	"elbuensabor/internal/models"
)

// ItemSales is one row of the top-seller ranking. Revenue is quantity times
// unit price, in whole COP units.
type ItemSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// DailyStats covers the calendar day now falls on, in now's location.
// Revenue and the ranking only count delivered orders; PeakHour looks at
// every order of the day.
type DailyStats struct {
	Date              string      `json:"date"`
	Branch            string      `json:"branch,omitempty"`
	Revenue           int64       `json:"revenue"`
	OrdersCompleted   int         `json:"ordersCompleted"`
	OrdersPending     int         `json:"ordersPending"`
	AverageOrderValue int64       `json:"averageOrderValue"`
	TopSellingItems   []ItemSales `json:"topSellingItems"`
	PeakHour          int         `json:"peakHour"`
}

type WeeklyStats struct {
	Branch          string  `json:"branch,omitempty"`
	Revenue         int64   `json:"revenue"`
	OrdersCompleted int     `json:"ordersCompleted"`
	Growth          float64 `json:"growth"`
}

type GoalProgress struct {
	Target     int64   `json:"target"`
	Achieved   int64   `json:"achieved"`
	Percentage float64 `json:"percentage"`
}

type MonthlyStats struct {
	Branch          string       `json:"branch,omitempty"`
	Revenue         int64        `json:"revenue"`
	OrdersCompleted int          `json:"ordersCompleted"`
	Growth          float64      `json:"growth"`
	GoalProgress    GoalProgress `json:"goalProgress"`
}

// Statuses that count as "still in flight" for the daily pending figure.
// Delivered is completed, cancelled belongs to neither bucket.
func isPendingStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusConfirmed,
		models.StatusPreparing, models.StatusOutForDelivery:
		return true
	}
	return false
}

func isCompleted(o models.Order) bool {
	return o.Status == models.StatusDelivered
}

// countable filters out orders that can never be bucketed: wrong branch, or
// a timestamp that failed to normalize at the store boundary.
func countable(o models.Order, branch string) bool {
	if o.CreatedAt.IsZero() {
		return false
	}
	return branch == "" || o.Branch == branch
}

func sameDay(t, anchor time.Time) bool {
	y1, m1, d1 := t.In(anchor.Location()).Date()
	y2, m2, d2 := anchor.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Daily derives the stats for the calendar day of now. topN bounds the
// top-seller ranking; non-positive values fall back to 5.
func Daily(orders []models.Order, now time.Time, branch string, topN int) DailyStats {
	if topN <= 0 {
		topN = 5
	}

	stats := DailyStats{
		Date:            now.Format("2006-01-02"),
		Branch:          branch,
		TopSellingItems: []ItemSales{},
		PeakHour:        -1,
	}

	sales := make(map[string]*ItemSales)
	var ranking []*ItemSales
	var hourCounts [24]int
	sawOrder := false

	for _, o := range orders {
		if !countable(o, branch) || !sameDay(o.CreatedAt, now) {
			continue
		}

		sawOrder = true
		hourCounts[o.CreatedAt.In(now.Location()).Hour()]++

		if isPendingStatus(o.Status) {
			stats.OrdersPending++
			continue
		}
		if !isCompleted(o) {
			continue
		}

		stats.OrdersCompleted++
		stats.Revenue += o.TotalAmount

		for _, item := range o.Items {
			entry, ok := sales[item.Name]
			if !ok {
				entry = &ItemSales{Name: item.Name}
				sales[item.Name] = entry
				ranking = append(ranking, entry)
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Price * int64(item.Quantity)
		}
	}

	if stats.OrdersCompleted > 0 {
		stats.AverageOrderValue = stats.Revenue / int64(stats.OrdersCompleted)
	}

	// Stable sort keeps first-encounter order between equal quantities.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Quantity > ranking[j].Quantity
	})
	if len(ranking) > topN {
		ranking = ranking[:topN]
	}
	for _, entry := range ranking {
		stats.TopSellingItems = append(stats.TopSellingItems, *entry)
	}

	if sawOrder {
		peak := 0
		for hour, count := range hourCounts {
			// Strictly greater: ties resolve to the earliest hour.
			if count > hourCounts[peak] {
				peak = hour
			}
		}
		stats.PeakHour = peak
	}

	return stats
}

// inWindow reports whether t falls in (start, end].
func inWindow(t, start, end time.Time) bool {
	return t.After(start) && !t.After(end)
}

// Weekly uses a rolling 7-day window ending at now; growth compares it
// against the 7 days before that.
func Weekly(orders []models.Order, now time.Time, branch string) WeeklyStats {
	stats := WeeklyStats{Branch: branch}

	start := now.AddDate(0, 0, -7)
	prevStart := now.AddDate(0, 0, -14)

	var previous int64
	for _, o := range orders {
		if !countable(o, branch) || !isCompleted(o) {
			continue
		}
		switch {
		case inWindow(o.CreatedAt, start, now):
			stats.Revenue += o.TotalAmount
			stats.OrdersCompleted++
		case inWindow(o.CreatedAt, prevStart, start):
			previous += o.TotalAmount
		}
	}

	stats.Growth = Growth(stats.Revenue, previous)
	return stats
}

// Monthly covers the calendar month containing now; growth compares against
// the immediately preceding calendar month. goalTarget is the configured
// monthly revenue goal.
func Monthly(orders []models.Order, now time.Time, branch string, goalTarget int64) MonthlyStats {
	stats := MonthlyStats{Branch: branch}

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonth := thisMonth.AddDate(0, -1, 0)

	var previous int64
	for _, o := range orders {
		if !countable(o, branch) || !isCompleted(o) {
			continue
		}
		local := o.CreatedAt.In(now.Location())
		anchor := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, now.Location())
		switch {
		case anchor.Equal(thisMonth):
			stats.Revenue += o.TotalAmount
			stats.OrdersCompleted++
		case anchor.Equal(prevMonth):
			previous += o.TotalAmount
		}
	}

	stats.Growth = Growth(stats.Revenue, previous)
	stats.GoalProgress = GoalProgress{
		Target:   goalTarget,
		Achieved: stats.Revenue,
	}
	if goalTarget > 0 {
		stats.GoalProgress.Percentage = float64(stats.Revenue) / float64(goalTarget) * 100
	}

	return stats
}

// Growth is the period-over-period percent change. Going from zero to
// anything reads as +100%, staying at zero as 0%.
func Growth(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}
