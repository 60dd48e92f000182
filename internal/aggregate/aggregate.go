// Package aggregate computes dashboard statistics from a record snapshot.
// Everything here is a pure function over the snapshot; stats are recomputed
// on every read rather than cached.
package aggregate

import (
	"sort"
	"time"

	"smartinvoice/internal/domain"
	"smartinvoice/internal/recalc"
)

const dateLayout = "2006-01-02"

// monthLayout matches the dashboard's axis labels, e.g. "Mar 24".
const monthLayout = "Jan 06"

// Compute derives dashboard statistics from the given records. Only records
// with status success contribute. Returns domain.ErrNoDashboardData when no
// record has settled successfully, so callers can skip rendering entirely.
func Compute(records []domain.InvoiceRecord) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}
	byCategory := make(map[domain.ExpenseCategory]float64)
	byMonth := make(map[time.Time]float64)

	for _, record := range records {
		if record.Status != domain.RecordStatusSuccess || record.Data == nil {
			continue
		}
		data := record.Data

		stats.InvoiceCount++
		stats.TotalSpend += data.TotalAmount

		category := data.Category
		if category == "" {
			category = domain.CategoryMiscellaneous
		}
		byCategory[category] += data.TotalAmount

		// Records whose date does not parse stay in the spend and category
		// views but are excluded from the monthly trend.
		if month, ok := parseMonth(data.Date); ok {
			byMonth[month] += data.TotalAmount
		}
	}

	if stats.InvoiceCount == 0 {
		return nil, domain.ErrNoDashboardData
	}

	stats.TotalSpend = recalc.Round2(stats.TotalSpend)

	// Category breakdown follows the enum definition order; zero-total
	// categories are dropped.
	for _, category := range domain.Categories() {
		total, ok := byCategory[category]
		if !ok || total == 0 {
			continue
		}
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, domain.CategoryTotal{
			Category: category,
			Total:    recalc.Round2(total),
		})
	}

	months := make([]time.Time, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	for _, month := range months {
		stats.MonthlySpend = append(stats.MonthlySpend, domain.MonthlyTotal{
			Month: month.Format(monthLayout),
			Total: recalc.Round2(byMonth[month]),
		})
	}

	return stats, nil
}

// parseMonth truncates an ISO date string to the first of its month.
func parseMonth(date string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
}
