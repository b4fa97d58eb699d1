package storage

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"

	"github.com/redis/go-redis/v9"
)

// OrderStore persists the processor result on a store order.
type OrderStore interface {
	// SaveMeta writes meta once. When the order already has metadata it
	// returns the stored value and false.
	SaveMeta(ctx context.Context, orderID string, meta models.OrderMeta) (models.OrderMeta, bool, error)
	GetMeta(ctx context.Context, orderID string) (models.OrderMeta, error)
	Complete(ctx context.Context, completion models.OrderCompletion) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

const (
	orderKeyPrefix = "order:"

	fieldStatus        = "status"
	fieldTransactionID = "transaction_id"
)

var saveMetaScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[1], ARGV[2], ARGV[3], ARGV[4])
return 1
`)

type RedisOrderStore struct {
	cache *redis.Client
}

func NewRedisOrderStore(cache *redis.Client) *RedisOrderStore {
	return &RedisOrderStore{
		cache: cache,
	}
}

func (s *RedisOrderStore) SaveMeta(ctx context.Context, orderID string, meta models.OrderMeta) (models.OrderMeta, bool, error) {
	written, err := saveMetaScript.Run(ctx, s.cache, []string{orderKey(orderID)},
		models.MetaOrderID, meta.VersapayOrderID,
		models.MetaApprovalCode, meta.ApprovalCode,
	).Int()
	if err != nil {
		return models.OrderMeta{}, false, fmt.Errorf("failed to save order meta: %w", err)
	}

	if written == 1 {
		return meta, true, nil
	}

	existing, err := s.GetMeta(ctx, orderID)
	if err != nil {
		return models.OrderMeta{}, false, err
	}

	return existing, false, nil
}

func (s *RedisOrderStore) GetMeta(ctx context.Context, orderID string) (models.OrderMeta, error) {
	values, err := s.cache.HMGet(ctx, orderKey(orderID), models.MetaOrderID, models.MetaApprovalCode).Result()
	if err != nil {
		return models.OrderMeta{}, fmt.Errorf("failed to get order meta: %w", err)
	}

	if values[0] == nil {
		return models.OrderMeta{}, models.ErrNotFound
	}

	meta := models.OrderMeta{VersapayOrderID: values[0].(string)}
	if code, ok := values[1].(string); ok {
		meta.ApprovalCode = code
	}

	return meta, nil
}

func (s *RedisOrderStore) Complete(ctx context.Context, completion models.OrderCompletion) error {
	key := orderKey(completion.OrderID)

	_, err := s.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldStatus, models.OrderStatusProcessing)
		if txID := completion.TransactionID(); txID != "" {
			pipe.HSet(ctx, key, fieldTransactionID, txID)
		}
		for _, note := range completion.Notes() {
			pipe.RPush(ctx, notesKey(completion.OrderID), note)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete order %s: %w", completion.OrderID, err)
	}

	return nil
}

func (s *RedisOrderStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	fields, err := s.cache.HGetAll(ctx, orderKey(orderID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if len(fields) == 0 {
		return nil, models.ErrNotFound
	}

	notes, err := s.cache.LRange(ctx, notesKey(orderID), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get order notes: %w", err)
	}

	return &models.Order{
		ID:            orderID,
		Status:        fields[fieldStatus],
		TransactionID: fields[fieldTransactionID],
		Meta: models.OrderMeta{
			VersapayOrderID: fields[models.MetaOrderID],
			ApprovalCode:    fields[models.MetaApprovalCode],
		},
		Notes: notes,
	}, nil
}

func orderKey(orderID string) string {
	return orderKeyPrefix + orderID
}

func notesKey(orderID string) string {
	return orderKeyPrefix + orderID + ":notes"
}
