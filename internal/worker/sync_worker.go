// Package worker exports ledger expenses to the spreadsheet, driven by
// expense-generated messages with a polling fallback.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"purse/internal/amqp"
	"purse/internal/cache"
	"purse/internal/core"
	"purse/internal/ledger"
	"purse/internal/sheets"
)

const (
	seenCacheSize = 1024
	seenCacheTTL  = time.Hour
)

// Store is the part of the ledger the sync worker reads and updates.
type Store interface {
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	ledger.SyncStore
}

// SyncWorker handles synchronization of expenses from the ledger to Google Sheets
type SyncWorker struct {
	store     Store
	sheets    sheets.ExpenseWriter
	batchSize int
	// ids exported recently; guards against redelivered messages
	seen cache.Cache[string]
}

func NewSyncWorker(store Store, writer sheets.ExpenseWriter, batchSize int) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{
		store:     store,
		sheets:    writer,
		batchSize: batchSize,
		seen:      cache.NewLRUCache[string](seenCacheSize, seenCacheTTL),
	}
}

// SeenCache exposes the dedupe cache so it can be registered for cleanup.
func (w *SyncWorker) SeenCache() cache.Cleaner {
	if c, ok := w.seen.(cache.Cleaner); ok {
		return c
	}
	return nil
}

// HandleGenerated processes a single expense generated message from AMQP.
// Expenses deleted before the message arrives, or already exported by this
// or an earlier worker, are acknowledged and skipped.
func (w *SyncWorker) HandleGenerated(ctx context.Context, msg *amqp.ExpenseGeneratedMessage) error {
	slog.InfoContext(ctx, "Processing expense generated message",
		"id", msg.ID,
		"source", msg.Source)

	if ref, ok := w.seen.Get(msg.ID); ok {
		slog.DebugContext(ctx, "Expense already exported, skipping", "id", msg.ID, "sheets_ref", ref)
		return nil
	}

	expense, err := w.store.GetExpense(ctx, msg.ID)
	if errors.Is(err, ledger.ErrNotFound) {
		slog.WarnContext(ctx, "Expense no longer in ledger, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from ledger: %w", err)
	}

	synced, err := w.store.IsSynced(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("check expense sync state: %w", err)
	}
	if synced {
		slog.DebugContext(ctx, "Expense already marked synced, skipping", "id", msg.ID)
		w.seen.Set(msg.ID, "ledger")
		return nil
	}

	if err := w.syncExpense(ctx, expense); err != nil {
		return fmt.Errorf("sync expense to sheets: %w", err)
	}
	return nil
}

// ProcessPendingExpenses exports expenses that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost. It returns the
// number of expenses exported.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) (int, error) {
	return w.processPending(ctx, w.batchSize)
}

// StartupSyncCheck exports a larger backlog at worker startup, recovering
// from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	synced, err := w.processPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync check: %w", err)
	}
	if synced == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", synced)
	return nil
}

func (w *SyncWorker) processPending(ctx context.Context, limit int) (int, error) {
	pending, err := w.store.ListUnsynced(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	synced := 0
	for _, e := range pending {
		if err := ctx.Err(); err != nil {
			return synced, err
		}
		if err := w.syncExpense(ctx, e); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", e.ID, "error", err)
			continue
		}
		synced++
	}
	return synced, nil
}

func (w *SyncWorker) syncExpense(ctx context.Context, e core.Expense) error {
	ref, err := w.sheets.Append(ctx, e)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}
	w.seen.Set(e.ID, ref)

	if err := w.store.MarkSynced(ctx, e.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", e.ID, "error", err)
		// Don't return error here - the sync actually worked
	}

	slog.InfoContext(ctx, "Successfully synced expense",
		"id", e.ID,
		"sheets_ref", ref,
		"merchant", e.Merchant,
		"amount_cents", e.Amount.Cents)
	return nil
}
