package workers

import (
	"context"
	"errors"
	"francoggm/versapay-checkout/internal/app/storage"
	"francoggm/versapay-checkout/internal/app/workers/processors"
	"francoggm/versapay-checkout/internal/models"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyProcessor struct {
	mu       sync.Mutex
	failures int
	seen     []any
}

func (p *flakyProcessor) ProcessEvent(_ context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seen = append(p.seen, event)
	if p.failures > 0 {
		p.failures--
		return errors.New("temporary failure")
	}
	return nil
}

func (p *flakyProcessor) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}

func TestOrchestratorReenqueuesFailedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventsCh := make(chan any, 4)
	proc := &flakyProcessor{failures: 2}
	orchestrator := NewOrchestrator(2, true, eventsCh, proc, WithRetryBackoff(10*time.Millisecond))
	orchestrator.StartWorkers(ctx)

	eventsCh <- "event"

	assert.Eventually(t, func() bool { return proc.count() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	orchestrator.Wait()
}

func TestOrchestratorBacksOffBeforeRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eventsCh := make(chan any, 4)
	proc := &flakyProcessor{failures: 100}
	orchestrator := NewOrchestrator(1, true, eventsCh, proc, WithRetryBackoff(200*time.Millisecond))
	orchestrator.StartWorkers(ctx)

	eventsCh <- "event"

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, proc.count())

	assert.Eventually(t, func() bool { return proc.count() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	orchestrator.Wait()
	assert.LessOrEqual(t, proc.count(), 3)
}

func TestOrchestratorStopsWhenChannelClosed(t *testing.T) {
	eventsCh := make(chan any, 4)
	proc := &flakyProcessor{}
	orchestrator := NewOrchestrator(3, false, eventsCh, proc)
	orchestrator.StartWorkers(context.Background())

	eventsCh <- 1
	eventsCh <- 2
	close(eventsCh)

	orchestrator.Wait()
	assert.Equal(t, 2, proc.count())
}

func TestCompletionWorkers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	orders := storage.NewRedisOrderStore(rdb)
	ctx := context.Background()

	meta := models.OrderMeta{VersapayOrderID: "vp-1", ApprovalCode: "A1"}
	_, _, err := orders.SaveMeta(ctx, "wc-1", meta)
	require.NoError(t, err)

	eventsCh := make(chan any, 1)
	orchestrator := NewOrchestrator(1, false, eventsCh, processors.NewCompletionProcessor(orders))
	orchestrator.StartWorkers(ctx)

	eventsCh <- &models.OrderCompletion{OrderID: "wc-1", Meta: meta}
	close(eventsCh)
	orchestrator.Wait()

	order, err := orders.GetOrder(ctx, "wc-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, "A1", order.TransactionID)
	assert.Contains(t, order.Notes, "Versapay Payments Approval Code: A1")
	assert.Contains(t, order.Notes, "Versapay Order Id: vp-1")
}

func TestCompletionProcessorRejectsUnknownEvents(t *testing.T) {
	proc := processors.NewCompletionProcessor(nil)
	err := proc.ProcessEvent(context.Background(), "nope")
	assert.ErrorIs(t, err, processors.ErrUnexpectedEvent)
}
