package storage

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const slotKeyPrefix = "versapay_payment_data:"

// PaymentSlotStore bridges a sale result to the order that is created
// after it. A slot lives for ttl and is cleared once the order holds the
// result.
type PaymentSlotStore struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewPaymentSlotStore(cache *redis.Client, ttl time.Duration) *PaymentSlotStore {
	return &PaymentSlotStore{
		cache: cache,
		ttl:   ttl,
	}
}

func (s *PaymentSlotStore) Put(ctx context.Context, checkoutID string, result *models.SaleResult) error {
	payload, err := sonic.ConfigFastest.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal sale result: %w", err)
	}

	return s.cache.Set(ctx, slotKeyPrefix+checkoutID, payload, s.ttl).Err()
}

func (s *PaymentSlotStore) Get(ctx context.Context, checkoutID string) (*models.SaleResult, error) {
	data, err := s.cache.Get(ctx, slotKeyPrefix+checkoutID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payment slot: %w", err)
	}

	var result models.SaleResult
	if err := sonic.ConfigFastest.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode payment slot: %w", err)
	}

	return &result, nil
}

func (s *PaymentSlotStore) Clear(ctx context.Context, checkoutID string) error {
	return s.cache.Del(ctx, slotKeyPrefix+checkoutID).Err()
}
