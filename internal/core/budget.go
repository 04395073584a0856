package core

import "sort"

// DefaultBudgetAlertPercent is the consumed share at which a budget
// starts warning.
const DefaultBudgetAlertPercent = 80

// Budget is a per-category monthly spending limit.
type Budget struct {
	Category     Category
	Limit        Money
	AlertPercent int // warn once spent/limit reaches this share
}

// BudgetState classifies how far a budget has been consumed.
type BudgetState string

const (
	BudgetSafe     BudgetState = "safe"
	BudgetWarning  BudgetState = "warning"
	BudgetExceeded BudgetState = "exceeded"
)

// BudgetStatus is a budget measured against one month's spending.
type BudgetStatus struct {
	Category  Category
	Limit     Money
	Spent     Money
	Remaining Money // floored at zero once the limit is blown
	Percent   float64
	State     BudgetState
}

// EvaluateBudget measures spent against the budget. An unset alert
// percentage falls back to the default.
func EvaluateBudget(b Budget, spent Money) BudgetStatus {
	alert := b.AlertPercent
	if alert <= 0 {
		alert = DefaultBudgetAlertPercent
	}
	status := BudgetStatus{Category: b.Category, Limit: b.Limit, Spent: spent, State: BudgetSafe}
	if b.Limit > 0 {
		status.Percent = float64(spent) / float64(b.Limit) * 100
	}
	if remaining := b.Limit - spent; remaining > 0 {
		status.Remaining = remaining
	}
	switch {
	case status.Percent >= 100:
		status.State = BudgetExceeded
	case status.Percent >= float64(alert):
		status.State = BudgetWarning
	}
	return status
}

// EvaluateBudgets measures every budget against the summary's per
// category totals. Categories without spending evaluate at zero. Most
// consumed budgets come first; name order breaks ties.
func EvaluateBudgets(budgets []Budget, sum MonthlySummary) []BudgetStatus {
	spent := make(map[Category]Money, len(sum.ByCategory))
	for _, share := range sum.ByCategory {
		spent[share.Category] = share.Total
	}
	statuses := make([]BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, EvaluateBudget(b, spent[b.Category]))
	}
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Percent != statuses[j].Percent {
			return statuses[i].Percent > statuses[j].Percent
		}
		return statuses[i].Category < statuses[j].Category
	})
	return statuses
}

// SuggestBudgets proposes monthly limits per category. With a known
// monthly income the split follows common Indonesian household ratios;
// without one it falls back to flat reference amounts.
func SuggestBudgets(monthlyIncome Money) []Budget {
	allocations := []struct {
		category Category
		ratio    float64
		flat     Money
	}{
		{CategoryDailyNeeds, 0.35, 2_000_000},
		{CategoryTransportation, 0.15, 800_000},
		{CategoryUtilities, 0.10, 500_000},
		{CategoryEntertainment, 0.15, 600_000},
		{CategoryHealth, 0.05, 300_000},
		{CategoryUrgent, 0.05, 200_000},
	}
	budgets := make([]Budget, 0, len(allocations))
	for _, a := range allocations {
		limit := a.flat
		if monthlyIncome > 0 {
			limit = Money(float64(monthlyIncome) * a.ratio)
		}
		budgets = append(budgets, Budget{Category: a.category, Limit: limit, AlertPercent: DefaultBudgetAlertPercent})
	}
	return budgets
}
