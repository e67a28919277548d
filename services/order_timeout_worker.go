package services

import (
	"context"
	"errors"
	"time"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
)

// AutoCancelReason is recorded on orders cancelled by the timeout worker.
const AutoCancelReason = "Store did not confirm the order in time"

// OrderTimeoutWorker cancels orders that are still Pending when their timeout row falls due.
type OrderTimeoutWorker struct {
	Timeouts  *repository.OrderTimeoutRepository
	Orders    *repository.OrderRepository
	Cancel    *CancellationService
	Interval  time.Duration
	BatchSize int
	Now       func() time.Time
}

func (w *OrderTimeoutWorker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// Run processes due rows immediately and then every Interval until ctx is done.
func (w *OrderTimeoutWorker) Run(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	logger.Info("order timeout worker started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if n, err := w.ProcessDue(ctx); err != nil {
			logger.Error("order timeout sweep failed", "err", err)
		} else if n > 0 {
			logger.Info("order timeouts processed", "count", n)
		}
		select {
		case <-ctx.Done():
			logger.Info("order timeout worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessDue handles one batch of due rows and returns how many were closed.
func (w *OrderTimeoutWorker) ProcessDue(ctx context.Context) (int, error) {
	batch := w.BatchSize
	if batch <= 0 {
		batch = 100
	}
	now := w.now()
	due, err := w.Timeouts.FindDue(now, batch)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, t := range due {
		if ctx.Err() != nil {
			return done, ctx.Err()
		}
		order, err := w.Orders.FindByID(w.Orders.DB, t.OrderID)
		switch {
		case isNotFound(err):
		case err != nil:
			logger.Error("order timeout: load order failed", "orderId", t.OrderID, "err", err)
			continue
		case order.OrderStatus == entity.OrderPending:
			_, err := w.Cancel.Cancel(ctx, order.UserID, order.ID, AutoCancelReason)
			if err != nil && !errors.Is(err, ErrConflict) {
				logger.Error("order timeout: cancel failed", "orderId", order.ID, "err", err)
				continue
			}
			logger.Info("order auto-cancelled", "orderId", order.ID)
		}
		if err := w.Timeouts.MarkProcessed(w.Timeouts.DB, t.OrderID, now); err != nil {
			logger.Error("order timeout: mark processed failed", "orderId", t.OrderID, "err", err)
			continue
		}
		done++
	}
	return done, nil
}
