// Package worker drains transaction sync messages and mirrors rows into
// the spreadsheet. SQLite stays the system of record; the sheet is a
// read-only view for humans.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetin/internal/amqp"
	"budgetin/internal/core"
	"budgetin/internal/sheets"
	"budgetin/internal/storage"
)

// SyncWorker works against the concrete repository rather than an
// interface; its test uses a real temp-file SQLite database.
type SyncWorker struct {
	storage   *storage.Repository
	sheets    sheets.TransactionWriter
	batchSize int
}

func NewSyncWorker(storage *storage.Repository, sheets sheets.TransactionWriter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message.
// Returning an error requeues the message.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"transaction_id", msg.TransactionID,
		"user_id", msg.UserID)

	tx, err := w.storage.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.syncToSheets(ctx, tx.ID, tx); err != nil {
		return fmt.Errorf("sync transaction to sheets: %w", err)
	}
	return nil
}

// ProcessPending sweeps transactions that never got synced. Backup path
// for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))
	for _, tx := range pending {
		if err := w.syncToSheets(ctx, tx.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "transaction_id", tx.ID, "error", err)
			continue
		}
	}
	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup,
// recovering from downtime or missed messages.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0
	for _, tx := range pending {
		if err := w.syncToSheets(ctx, tx.ID, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"transaction_id", tx.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)
	return nil
}

func (w *SyncWorker) syncToSheets(ctx context.Context, id int64, tx core.Transaction) error {
	ref, err := w.sheets.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "transaction_id", id, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, id); err != nil {
		// The row is already on the sheet; the pending sweep will retry
		// the mark, and a duplicate append is tolerable.
		slog.ErrorContext(ctx, "Failed to mark as synced", "transaction_id", id, "error", err)
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"transaction_id", id,
		"sheets_ref", ref,
		"user_id", tx.UserID,
		"amount", int64(tx.Amount))
	return nil
}
