// Package services orchestrates the expense flow: parse the message,
// classify it, mutate the ledger, then fan out to the spreadsheet via
// AMQP.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgetin/internal/amqp"
	"budgetin/internal/classify"
	"budgetin/internal/core"
	"budgetin/internal/ledger"
)

// TransactionLister reads recorded transactions for summaries.
type TransactionLister interface {
	ListTransactions(ctx context.Context, userID string, year, month int) ([]core.Transaction, error)
}

// BudgetStore persists per-category monthly limits.
type BudgetStore interface {
	SetBudget(ctx context.Context, userID string, b core.Budget) error
	DeleteBudget(ctx context.Context, userID string, category core.Category) (bool, error)
	ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
}

// RecordResult is everything the bot needs to answer an expense message.
type RecordResult struct {
	Transaction core.Transaction
	NewBalance  core.Money
	LowBalance  bool
	Budget      *core.BudgetStatus // set when the category has a monthly limit
}

// Tracker orchestrates expense recording across the ledger, the
// classifier, and AMQP.
type Tracker struct {
	ledger     *ledger.Ledger
	lister     TransactionLister
	classifier classify.Classifier
	amqpClient *amqp.Client
	budgets    BudgetStore

	// Applied to newly activated ledgers that have no threshold of their
	// own. Zero leaves the advisory off.
	defaultThreshold core.Money
}

func NewTracker(ledger *ledger.Ledger, lister TransactionLister, classifier classify.Classifier, amqpClient *amqp.Client) *Tracker {
	return &Tracker{
		ledger:     ledger,
		lister:     lister,
		classifier: classifier,
		amqpClient: amqpClient,
	}
}

// RecordExpense parses a free-text message into a transaction, debits
// the ledger, and publishes a sync message. The publish is best effort;
// the pending sweep in the worker catches lost messages.
func (t *Tracker) RecordExpense(ctx context.Context, userID, text string) (RecordResult, error) {
	amount, residual, found := core.ExtractAmount(text)
	if !found {
		return RecordResult{}, core.ErrAmountNotFound
	}

	category, err := t.classifier.Classify(ctx, residual)
	if err != nil {
		// Classifiers are total by construction; a failure here means a
		// misconfigured chain, not bad input.
		slog.ErrorContext(ctx, "Classification failed, defaulting category",
			"user_id", userID, "error", err)
		category = core.CategoryOther
	}

	tx, err := core.NewTransaction(userID, amount, residual, category, core.JakartaNow())
	if err != nil {
		return RecordResult{}, fmt.Errorf("build transaction: %w", err)
	}

	stored, adv, err := t.ledger.RecordExpense(ctx, tx)
	if err != nil {
		return RecordResult{}, fmt.Errorf("record expense: %w", err)
	}

	t.publishSync(ctx, stored.ID, stored.UserID)

	res := RecordResult{
		Transaction: stored,
		NewBalance:  adv.NewBalance,
		LowBalance:  adv.LowBalance,
	}
	if t.budgets != nil {
		if status, ok := t.budgetStatus(ctx, stored); ok {
			res.Budget = &status
		}
	}
	return res, nil
}

// budgetStatus measures the transaction's category against its monthly
// limit, if one is set. A lookup failure only costs the advisory; the
// expense itself is already recorded.
func (t *Tracker) budgetStatus(ctx context.Context, tx core.Transaction) (core.BudgetStatus, bool) {
	budgets, err := t.budgets.ListBudgets(ctx, tx.UserID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load budgets",
			"user_id", tx.UserID, "error", err)
		return core.BudgetStatus{}, false
	}
	var budget core.Budget
	found := false
	for _, b := range budgets {
		if b.Category == tx.Category {
			budget, found = b, true
			break
		}
	}
	if !found {
		return core.BudgetStatus{}, false
	}

	txs, err := t.lister.ListTransactions(ctx, tx.UserID, tx.Timestamp.Year(), int(tx.Timestamp.Month()))
	if err != nil {
		slog.WarnContext(ctx, "Failed to compute budget spending",
			"user_id", tx.UserID, "error", err)
		return core.BudgetStatus{}, false
	}
	var spent core.Money
	for _, rec := range txs {
		if rec.Category == tx.Category {
			spent += rec.Amount
		}
	}
	return core.EvaluateBudget(budget, spent), true
}

// WithDefaultThreshold sets the low balance threshold applied when a
// ledger is first activated.
func (t *Tracker) WithDefaultThreshold(threshold core.Money) *Tracker {
	t.defaultThreshold = threshold
	return t
}

// WithBudgets enables per-category monthly limits backed by the store.
func (t *Tracker) WithBudgets(store BudgetStore) *Tracker {
	t.budgets = store
	return t
}

// SetBalance activates a user's ledger or resets the running balance.
func (t *Tracker) SetBalance(ctx context.Context, userID string, amount core.Money) (core.LedgerState, error) {
	state, err := t.ledger.SetInitialBalance(ctx, userID, amount)
	if err != nil {
		return core.LedgerState{}, err
	}
	if t.defaultThreshold > 0 && state.LowBalanceThreshold == 0 {
		state, err = t.ledger.SetLowBalanceThreshold(ctx, userID, t.defaultThreshold)
		if err != nil {
			return core.LedgerState{}, fmt.Errorf("apply default threshold: %w", err)
		}
	}
	return state, nil
}

// Topup adds funds to an active ledger.
func (t *Tracker) Topup(ctx context.Context, userID string, amount core.Money) (ledger.Advisory, error) {
	return t.ledger.ApplyTopup(ctx, userID, amount)
}

// SetThreshold updates when the low balance advisory fires. Zero
// disables it.
func (t *Tracker) SetThreshold(ctx context.Context, userID string, threshold core.Money) (core.LedgerState, error) {
	return t.ledger.SetLowBalanceThreshold(ctx, userID, threshold)
}

// Balance returns the user's current ledger state.
func (t *Tracker) Balance(ctx context.Context, userID string) (core.LedgerState, error) {
	return t.ledger.State(ctx, userID)
}

// MonthlySummary aggregates a user's recorded transactions for the given
// month.
func (t *Tracker) MonthlySummary(ctx context.Context, userID string, year, month int) (core.MonthlySummary, error) {
	txs, err := t.lister.ListTransactions(ctx, userID, year, month)
	if err != nil {
		return core.MonthlySummary{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.Summarize(txs, year, month, core.JakartaNow()), nil
}

// SetBudget stores a monthly limit for the category. A zero limit
// removes the budget.
func (t *Tracker) SetBudget(ctx context.Context, userID string, category core.Category, limit core.Money) error {
	if t.budgets == nil {
		return errors.New("budget store not configured")
	}
	if limit < 0 {
		return fmt.Errorf("%w: budget must not be negative", core.ErrInvalidAmount)
	}
	if limit == 0 {
		_, err := t.budgets.DeleteBudget(ctx, userID, category)
		return err
	}
	return t.budgets.SetBudget(ctx, userID, core.Budget{
		Category:     category,
		Limit:        limit,
		AlertPercent: core.DefaultBudgetAlertPercent,
	})
}

// RemoveBudget clears the category's limit and reports whether one was
// set.
func (t *Tracker) RemoveBudget(ctx context.Context, userID string, category core.Category) (bool, error) {
	if t.budgets == nil {
		return false, errors.New("budget store not configured")
	}
	return t.budgets.DeleteBudget(ctx, userID, category)
}

// BudgetReport evaluates the user's budgets against the current month's
// spending. An empty result means no budgets are set.
func (t *Tracker) BudgetReport(ctx context.Context, userID string) ([]core.BudgetStatus, error) {
	if t.budgets == nil {
		return nil, nil
	}
	budgets, err := t.budgets.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	if len(budgets) == 0 {
		return nil, nil
	}
	now := core.JakartaNow()
	sum, err := t.MonthlySummary(ctx, userID, now.Year(), int(now.Month()))
	if err != nil {
		return nil, err
	}
	return core.EvaluateBudgets(budgets, sum), nil
}

// Insights analyzes the current month's spending against the previous
// one.
func (t *Tracker) Insights(ctx context.Context, userID string) (core.MonthInsights, error) {
	now := core.JakartaNow()
	year, month := now.Year(), int(now.Month())

	current, err := t.lister.ListTransactions(ctx, userID, year, month)
	if err != nil {
		return core.MonthInsights{}, fmt.Errorf("list transactions: %w", err)
	}
	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	previous, err := t.lister.ListTransactions(ctx, userID, prevYear, prevMonth)
	if err != nil {
		return core.MonthInsights{}, fmt.Errorf("list previous month: %w", err)
	}
	return core.AnalyzeMonth(current, previous, year, month, now), nil
}

func (t *Tracker) publishSync(ctx context.Context, transactionID int64, userID string) {
	if t.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message",
			"transaction_id", transactionID)
		return
	}
	if err := t.amqpClient.PublishTransactionSync(ctx, transactionID, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", transactionID, "error", err)
	}
}
