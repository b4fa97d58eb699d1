package processors

import (
	"context"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
)

type OrderCompleter interface {
	Complete(ctx context.Context, completion models.OrderCompletion) error
}

// CompletionProcessor marks a paid order as processing, sets its
// transaction id and records the Versapay references as order notes.
type CompletionProcessor struct {
	orders OrderCompleter
}

func NewCompletionProcessor(orders OrderCompleter) *CompletionProcessor {
	return &CompletionProcessor{
		orders: orders,
	}
}

func (p *CompletionProcessor) ProcessEvent(ctx context.Context, event any) error {
	completion, ok := event.(*models.OrderCompletion)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnexpectedEvent, event)
	}

	if err := p.orders.Complete(ctx, *completion); err != nil {
		return err
	}

	slog.Info("order completed", "order_id", completion.OrderID, "transaction_id", completion.TransactionID())
	return nil
}
