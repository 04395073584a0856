package core

import (
	"sort"
	"time"
)

// CategoryShare is a category's slice of a monthly total.
type CategoryShare struct {
	Category Category
	Total    Money
	Percent  float64 // 0 when the monthly total is zero
}

// MonthlySummary aggregates one user's transactions for a calendar month.
type MonthlySummary struct {
	Year          int
	Month         int // 1-12
	Total         Money
	Count         int
	AveragePerDay float64
	ByCategory    []CategoryShare
}

// WorksheetName returns the label this summary is addressed by.
func (s MonthlySummary) WorksheetName() string {
	return WorksheetName(s.Year, s.Month)
}

// Summarize computes the monthly summary for the given year and month.
// Transactions outside the month are skipped, so callers may pass a full
// history. The per-day average divides by the days elapsed up to now when
// the month is the current one, and by the full month length otherwise.
func Summarize(txs []Transaction, year, month int, now time.Time) MonthlySummary {
	summary := MonthlySummary{Year: year, Month: month}
	byCategory := make(map[Category]Money)

	for _, tx := range txs {
		if tx.Timestamp.Year() != year || int(tx.Timestamp.Month()) != month {
			continue
		}
		summary.Total += tx.Amount
		summary.Count++
		byCategory[tx.Category] += tx.Amount
	}

	elapsed := DaysInMonth(year, month)
	if now.Year() == year && int(now.Month()) == month {
		elapsed = now.Day()
	}
	if elapsed > 0 {
		summary.AveragePerDay = float64(summary.Total) / float64(elapsed)
	}

	for cat, total := range byCategory {
		share := CategoryShare{Category: cat, Total: total}
		if summary.Total > 0 {
			share.Percent = float64(total) / float64(summary.Total) * 100
		}
		summary.ByCategory = append(summary.ByCategory, share)
	}
	// Largest categories first; name order breaks ties deterministically.
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if summary.ByCategory[i].Total != summary.ByCategory[j].Total {
			return summary.ByCategory[i].Total > summary.ByCategory[j].Total
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	return summary
}
