package core

import (
	"math"
	"testing"
	"time"
)

func tx(day int, amount Money, cat Category) Transaction {
	return Transaction{
		UserID:      "42",
		Timestamp:   time.Date(2025, 4, day, 10, 0, 0, 0, time.UTC),
		Amount:      amount,
		Description: "x",
		Category:    cat,
	}
}

func TestSummarizeFullMonth(t *testing.T) {
	txs := []Transaction{
		tx(1, 100000, CategoryDailyNeeds),
		tx(10, 30000, CategoryTransportation),
		tx(30, 20000, CategoryDailyNeeds),
	}
	// now is after April, so the full 30 days divide the average.
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	s := Summarize(txs, 2025, 4, now)

	if s.Total != 150000 || s.Count != 3 {
		t.Fatalf("total = %d count = %d", s.Total, s.Count)
	}
	if s.AveragePerDay != 5000 {
		t.Fatalf("average per day = %v, want 5000", s.AveragePerDay)
	}
	if len(s.ByCategory) != 2 {
		t.Fatalf("categories = %d, want 2", len(s.ByCategory))
	}
	if s.ByCategory[0].Category != CategoryDailyNeeds || s.ByCategory[0].Total != 120000 {
		t.Fatalf("top category = %+v", s.ByCategory[0])
	}

	var percentSum float64
	for _, share := range s.ByCategory {
		percentSum += share.Percent
	}
	if math.Abs(percentSum-100) > 0.1 {
		t.Fatalf("percentages sum to %v", percentSum)
	}
}

func TestSummarizeCurrentMonthUsesElapsedDays(t *testing.T) {
	txs := []Transaction{tx(2, 50000, CategoryDailyNeeds)}
	now := time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)
	s := Summarize(txs, 2025, 4, now)
	if s.AveragePerDay != 5000 {
		t.Fatalf("average per day = %v, want 5000", s.AveragePerDay)
	}
}

func TestSummarizeEmptyMonth(t *testing.T) {
	s := Summarize(nil, 2025, 4, time.Now())
	if s.Total != 0 || s.Count != 0 || s.AveragePerDay != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
	if len(s.ByCategory) != 0 {
		t.Fatalf("expected no category shares, got %d", len(s.ByCategory))
	}
}

func TestSummarizeSkipsOtherMonths(t *testing.T) {
	txs := []Transaction{
		tx(5, 10000, CategoryOther),
		{UserID: "42", Timestamp: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Amount: 99999, Description: "x", Category: CategoryOther},
	}
	s := Summarize(txs, 2025, 4, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	if s.Total != 10000 || s.Count != 1 {
		t.Fatalf("summary = %+v", s)
	}
}
