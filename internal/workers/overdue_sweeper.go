// Package workers holds long-running background jobs started from main.
package workers

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/yomu-app/yomu_backend/internal/core/ports/services"
)

// OverdueSweeper periodically reclassifies expired active loans as OVERDUE.
// The loan service also sweeps on demand before reads, so the worker only
// bounds how stale statuses can get while the API is idle.
type OverdueSweeper struct {
	loanService portssvc.LoanOverdueSvc
	interval    time.Duration
	logger      *slog.Logger
}

// NewOverdueSweeper creates a sweeper that runs every interval.
func NewOverdueSweeper(loanService portssvc.LoanOverdueSvc, interval time.Duration, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{loanService: loanService, interval: interval, logger: logger}
}

// Start launches the sweep loop. It runs once immediately, then on every
// tick until ctx is cancelled.
func (w *OverdueSweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Overdue sweeper stopped")
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

func (w *OverdueSweeper) sweep(ctx context.Context) {
	updated, err := w.loanService.CheckAndUpdateOverdue(ctx)
	if err != nil {
		w.logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
		return
	}
	if updated > 0 {
		w.logger.Info("Overdue sweep completed", slog.Int64("loans_marked_overdue", updated))
	}
}
