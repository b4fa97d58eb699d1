package sale

import (
	"context"
	"errors"
	"francoggm/versapay-checkout/internal/app/storage"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"sync"
)

// Recorder moves a sale result onto the order once the store created it.
type Recorder struct {
	slots         SlotStore
	orders        storage.OrderStore
	completionsCh chan any

	mu     sync.RWMutex
	closed bool
}

func NewRecorder(slots SlotStore, orders storage.OrderStore, completionsCh chan any) *Recorder {
	return &Recorder{
		slots:         slots,
		orders:        orders,
		completionsCh: completionsCh,
	}
}

// Persist writes the order metadata once. The payment slot wins over the
// echoed fields and is only cleared after the metadata was saved. A
// repeated call returns the metadata already stored and does not enqueue
// another completion.
func (r *Recorder) Persist(ctx context.Context, orderID, checkoutID string, echoed models.OrderMeta) (models.OrderMeta, error) {
	meta := echoed
	fromSlot := false

	if checkoutID != "" {
		result, err := r.slots.Get(ctx, checkoutID)
		switch {
		case err == nil:
			meta = models.OrderMeta{VersapayOrderID: result.OrderID, ApprovalCode: result.ApprovalCode}
			fromSlot = true
		case !errors.Is(err, models.ErrNotFound):
			slog.Error("failed to read payment slot", "order_id", orderID, "err", err)
		}
	}

	if meta.Empty() {
		existing, err := r.orders.GetMeta(ctx, orderID)
		if err != nil {
			return models.OrderMeta{}, err
		}
		return existing, nil
	}

	stored, written, err := r.orders.SaveMeta(ctx, orderID, meta)
	if err != nil {
		return models.OrderMeta{}, err
	}

	if fromSlot {
		if err := r.slots.Clear(ctx, checkoutID); err != nil {
			slog.Warn("failed to clear payment slot", "order_id", orderID, "err", err)
		}
	}

	if written {
		r.enqueue(ctx, &models.OrderCompletion{OrderID: orderID, Meta: stored})
	}

	return stored, nil
}

func (r *Recorder) Lookup(ctx context.Context, orderID string) (models.OrderMeta, error) {
	return r.orders.GetMeta(ctx, orderID)
}

// Close stops accepting completions and closes the queue. Persist calls
// still running afterwards only write the metadata.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	close(r.completionsCh)
}

func (r *Recorder) enqueue(ctx context.Context, completion *models.OrderCompletion) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		slog.Warn("order completion not enqueued, queue closed", "order_id", completion.OrderID)
		return
	}

	select {
	case r.completionsCh <- completion:
	case <-ctx.Done():
		slog.Warn("order completion not enqueued", "order_id", completion.OrderID, "err", ctx.Err())
	}
}
