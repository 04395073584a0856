// Package ledger maintains per-user running balances. Every mutation for
// a user is serialized through a lock registry so a transaction's
// recorded balance always equals the ledger balance right after it was
// applied, no matter how many requests race for the same user. Ledgers of
// different users never contend.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"budgetin/internal/core"
)

// Store is the persistence collaborator. Each call is durable and
// atomic on its own; ApplyExpense in particular commits the appended
// transaction and the new ledger state together or not at all, so a
// storage failure can never leave a recorded expense without its debit.
type Store interface {
	LoadLedger(ctx context.Context, userID string) (core.LedgerState, bool, error)
	SaveLedger(ctx context.Context, state core.LedgerState) error
	ApplyExpense(ctx context.Context, tx core.Transaction, state core.LedgerState) (core.Transaction, error)
}

// Advisory carries the non-fatal signals of a mutation.
type Advisory struct {
	NewBalance core.Money
	LowBalance bool // balance dropped below the configured threshold
}

// Ledger applies expenses and top-ups against per-user balances.
type Ledger struct {
	store Store
	locks userLocks
}

func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// SetInitialBalance moves a user's ledger to the active state. It also
// resets the balance of an already-active ledger, which is how users
// correct a bad setup. The amount may be zero but not negative.
func (l *Ledger) SetInitialBalance(ctx context.Context, userID string, amount core.Money) (core.LedgerState, error) {
	if strings.TrimSpace(userID) == "" {
		return core.LedgerState{}, core.ErrEmptyUserID
	}
	if amount < 0 {
		return core.LedgerState{}, fmt.Errorf("%w: initial balance must not be negative", core.ErrInvalidAmount)
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	state, found, err := l.store.LoadLedger(ctx, userID)
	if err != nil {
		return core.LedgerState{}, fmt.Errorf("load ledger: %w", err)
	}
	if !found {
		state = core.LedgerState{UserID: userID}
	}
	state.Balance = amount
	state.Initialized = true

	if err := l.store.SaveLedger(ctx, state); err != nil {
		return core.LedgerState{}, fmt.Errorf("save ledger: %w", err)
	}
	return state, nil
}

// SetLowBalanceThreshold configures the advisory threshold; zero disables
// it. The ledger must be active.
func (l *Ledger) SetLowBalanceThreshold(ctx context.Context, userID string, threshold core.Money) (core.LedgerState, error) {
	if threshold < 0 {
		return core.LedgerState{}, fmt.Errorf("%w: threshold must not be negative", core.ErrInvalidAmount)
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	state, err := l.activeState(ctx, userID)
	if err != nil {
		return core.LedgerState{}, err
	}
	state.LowBalanceThreshold = threshold

	if err := l.store.SaveLedger(ctx, state); err != nil {
		return core.LedgerState{}, fmt.Errorf("save ledger: %w", err)
	}
	return state, nil
}

// RecordExpense appends the transaction and debits its amount, all under
// the user's lock. The returned transaction carries the store ID and a
// BalanceAfter equal to the ledger balance at that instant. The balance
// is not floored at zero: overspending is recorded as a negative balance
// and surfaced, never silently corrected.
func (l *Ledger) RecordExpense(ctx context.Context, tx core.Transaction) (core.Transaction, Advisory, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, Advisory{}, err
	}

	unlock := l.locks.lock(tx.UserID)
	defer unlock()

	state, err := l.activeState(ctx, tx.UserID)
	if err != nil {
		return core.Transaction{}, Advisory{}, err
	}

	state.Balance -= tx.Amount
	tx.BalanceAfter = state.Balance

	stored, err := l.store.ApplyExpense(ctx, tx, state)
	if err != nil {
		return core.Transaction{}, Advisory{}, fmt.Errorf("apply expense: %w", err)
	}
	return stored, advisory(state), nil
}

// ApplyTopup credits the amount to an active ledger.
func (l *Ledger) ApplyTopup(ctx context.Context, userID string, amount core.Money) (Advisory, error) {
	if amount <= 0 {
		return Advisory{}, fmt.Errorf("%w: top-up must be positive", core.ErrInvalidAmount)
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	state, err := l.activeState(ctx, userID)
	if err != nil {
		return Advisory{}, err
	}
	state.Balance += amount

	if err := l.store.SaveLedger(ctx, state); err != nil {
		return Advisory{}, fmt.Errorf("save ledger: %w", err)
	}
	return advisory(state), nil
}

// State returns the user's ledger snapshot without mutating it.
func (l *Ledger) State(ctx context.Context, userID string) (core.LedgerState, error) {
	unlock := l.locks.lock(userID)
	defer unlock()
	return l.activeState(ctx, userID)
}

// activeState loads the ledger and enforces the UNINITIALIZED -> ACTIVE
// precondition. Callers must hold the user's lock.
func (l *Ledger) activeState(ctx context.Context, userID string) (core.LedgerState, error) {
	state, found, err := l.store.LoadLedger(ctx, userID)
	if err != nil {
		return core.LedgerState{}, fmt.Errorf("load ledger: %w", err)
	}
	if !found || !state.Initialized {
		return core.LedgerState{}, core.ErrLedgerNotInitialized
	}
	return state, nil
}

func advisory(state core.LedgerState) Advisory {
	return Advisory{
		NewBalance: state.Balance,
		LowBalance: state.LowBalanceThreshold > 0 && state.Balance < state.LowBalanceThreshold,
	}
}

// userLocks hands out one mutex per user id. Entries are never removed;
// the set of users a single bot instance serves stays small.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (u *userLocks) lock(userID string) (unlock func()) {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[string]*sync.Mutex)
	}
	m, ok := u.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		u.locks[userID] = m
	}
	u.mu.Unlock()

	m.Lock()
	return m.Unlock
}
