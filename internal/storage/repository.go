// Package storage is the system of record: per-user ledgers and the
// append-only transaction log live in a local SQLite database. Google
// Sheets is a sync target fed asynchronously by the worker, never the
// source of truth.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"budgetin/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states of a transaction row.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadLedger implements ledger.Store.
func (r *Repository) LoadLedger(ctx context.Context, userID string) (core.LedgerState, bool, error) {
	var state core.LedgerState
	var initialized int64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, balance, low_balance_threshold, initialized
		 FROM ledgers WHERE user_id = ?`, userID).
		Scan(&state.UserID, &state.Balance, &state.LowBalanceThreshold, &initialized)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerState{}, false, nil
	}
	if err != nil {
		return core.LedgerState{}, false, fmt.Errorf("select ledger: %w", err)
	}
	state.Initialized = initialized != 0
	return state, true, nil
}

// SaveLedger implements ledger.Store with an upsert.
func (r *Repository) SaveLedger(ctx context.Context, state core.LedgerState) error {
	return upsertLedger(ctx, r.db, state)
}

// ApplyExpense implements ledger.Store. The transaction insert and the
// ledger upsert share one database transaction, so a failure of either
// leaves no orphaned row for the sync worker to pick up. Year/month/day
// columns are derived from the transaction's own timezone so monthly
// grouping follows the user's calendar, not UTC.
func (r *Repository) ApplyExpense(ctx context.Context, tx core.Transaction, state core.LedgerState) (core.Transaction, error) {
	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin apply expense: %w", err)
	}
	defer dbtx.Rollback()

	id, err := insertTransaction(ctx, dbtx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := upsertLedger(ctx, dbtx, state); err != nil {
		return core.Transaction{}, err
	}
	if err := dbtx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit apply expense: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"user_id", tx.UserID,
		"amount", int64(tx.Amount),
		"category", string(tx.Category))

	return tx, nil
}

// execer lets the write helpers run against the pool or an open
// database transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertLedger(ctx context.Context, ex execer, state core.LedgerState) error {
	initialized := 0
	if state.Initialized {
		initialized = 1
	}
	_, err := ex.ExecContext(ctx,
		`INSERT INTO ledgers (user_id, balance, low_balance_threshold, initialized, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(user_id) DO UPDATE SET
		   balance = excluded.balance,
		   low_balance_threshold = excluded.low_balance_threshold,
		   initialized = excluded.initialized,
		   updated_at = excluded.updated_at`,
		state.UserID, state.Balance, state.LowBalanceThreshold, initialized)
	if err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, ex execer, tx core.Transaction) (int64, error) {
	res, err := ex.ExecContext(ctx,
		`INSERT INTO transactions
		 (user_id, recorded_at, year, month, day, amount, description, category, balance_after)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Timestamp.Format(time.RFC3339),
		tx.Timestamp.Year(), int(tx.Timestamp.Month()), tx.Timestamp.Day(),
		tx.Amount, tx.Description, string(tx.Category), tx.BalanceAfter)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// GetTransaction returns one transaction by ID.
func (r *Repository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, recorded_at, amount, description, category, balance_after
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return tx, nil
}

// ListTransactions returns a user's transactions for a calendar month,
// oldest first.
func (r *Repository) ListTransactions(ctx context.Context, userID string, year, month int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, recorded_at, amount, description, category, balance_after
		 FROM transactions
		 WHERE user_id = ? AND year = ? AND month = ?
		 ORDER BY id`, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// ListPendingSync returns transactions not yet copied to the spreadsheet,
// oldest first, up to limit.
func (r *Repository) ListPendingSync(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, recorded_at, amount, description, category, balance_after
		 FROM transactions
		 WHERE sync_status = ?
		 ORDER BY id LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending sync: %w", err)
	}
	return txs, nil
}

// MarkSynced records that the worker copied the transaction to the sheet.
func (r *Repository) MarkSynced(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncDone)
}

// MarkSyncError flags a transaction whose sync keeps failing so the
// pending sweep stops retrying it.
func (r *Repository) MarkSyncError(ctx context.Context, id int64) error {
	return r.setSyncStatus(ctx, id, SyncError)
}

func (r *Repository) setSyncStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ?, synced_at = datetime('now') WHERE id = ?`,
		status, id)
	if err != nil {
		return fmt.Errorf("update sync status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("transaction %d not found", id)
	}
	return nil
}

// SetBudget creates or replaces the user's monthly limit for a
// category.
func (r *Repository) SetBudget(ctx context.Context, userID string, b core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, monthly_limit, alert_percent, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'))
		 ON CONFLICT(user_id, category) DO UPDATE SET
		   monthly_limit = excluded.monthly_limit,
		   alert_percent = excluded.alert_percent,
		   updated_at = excluded.updated_at`,
		userID, string(b.Category), b.Limit, b.AlertPercent)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// DeleteBudget removes the category's limit and reports whether one
// existed.
func (r *Repository) DeleteBudget(ctx context.Context, userID string, category core.Category) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE user_id = ? AND category = ?`,
		userID, string(category))
	if err != nil {
		return false, fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete budget rows affected: %w", err)
	}
	return n > 0, nil
}

// ListBudgets returns the user's budgets in category name order.
func (r *Repository) ListBudgets(ctx context.Context, userID string) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category, monthly_limit, alert_percent
		 FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		var category string
		if err := rows.Scan(&category, &b.Limit, &b.AlertPercent); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Category = core.Category(category)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var recordedAt, category string
	if err := row.Scan(&tx.ID, &tx.UserID, &recordedAt, &tx.Amount,
		&tx.Description, &category, &tx.BalanceAfter); err != nil {
		return core.Transaction{}, err
	}
	ts, err := time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse recorded_at %q: %w", recordedAt, err)
	}
	tx.Timestamp = ts
	tx.Category = core.Category(category)
	return tx, nil
}
