package core

import (
	"errors"
	"strings"
	"time"
)

// DefaultDescription is used when a message carries an amount but no
// recognizable description.
const DefaultDescription = "Pengeluaran"

type (
	// Money is an amount in whole rupiah. IDR has no fractional unit in
	// practice, so a plain integer is exact.
	Money int64

	// Category is one of the fixed expense categories.
	Category string

	// Transaction is a single recorded expense. Built once, never mutated.
	Transaction struct {
		ID           int64 // database ID, 0 until persisted
		UserID       string
		Timestamp    time.Time
		Amount       Money
		Description  string
		Category     Category
		BalanceAfter Money
	}

	// LedgerState is the per-user running balance snapshot.
	LedgerState struct {
		UserID              string
		Balance             Money
		LowBalanceThreshold Money // 0 disables the advisory
		Initialized         bool
	}
)

const (
	CategoryDailyNeeds     Category = "Daily Needs"
	CategoryTransportation Category = "Transportation"
	CategoryUtilities      Category = "Utilities"
	CategoryHealth         Category = "Health"
	CategoryUrgent         Category = "Urgent"
	CategoryEntertainment  Category = "Entertainment"
	CategoryEducation      Category = "Education"
	CategoryShopping       Category = "Shopping"
	CategoryBills          Category = "Bills"
	CategoryOther          Category = "Other"
)

// Categories lists every valid category, CategoryOther last.
var Categories = []Category{
	CategoryDailyNeeds,
	CategoryTransportation,
	CategoryUtilities,
	CategoryHealth,
	CategoryUrgent,
	CategoryEntertainment,
	CategoryEducation,
	CategoryShopping,
	CategoryBills,
	CategoryOther,
}

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAmountNotFound       = errors.New("no amount found in text")
	ErrEmptyUserID          = errors.New("empty user id")
	ErrLedgerNotInitialized = errors.New("ledger not initialized")
	ErrUnknownCategory      = errors.New("unknown category")
)

// ValidCategory reports whether name is one of the fixed categories.
// Matching is case-insensitive; the canonical spelling is returned.
func ValidCategory(name string) (Category, bool) {
	trimmed := strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

// NewTransaction builds a transaction from extracted parts. It is pure:
// no I/O, no clock reads, the caller supplies now. The only rejection is
// a non-positive amount; every other input is defaulted.
func NewTransaction(userID string, amount Money, description string, category Category, now time.Time) (Transaction, error) {
	if strings.TrimSpace(userID) == "" {
		return Transaction{}, ErrEmptyUserID
	}
	if amount <= 0 {
		return Transaction{}, ErrInvalidAmount
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}
	if _, ok := ValidCategory(string(category)); !ok {
		category = CategoryOther
	}
	return Transaction{
		UserID:      userID,
		Timestamp:   now,
		Amount:      amount,
		Description: description,
		Category:    category,
	}, nil
}

func (m Money) Validate() error {
	if m <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return errors.New("empty description")
	}
	if _, ok := ValidCategory(string(t.Category)); !ok {
		return ErrUnknownCategory
	}
	return nil
}
