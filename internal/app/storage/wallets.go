package storage

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"

	"github.com/redis/go-redis/v9"
)

const walletKeyPrefix = "versapay_walletid:"

// WalletStore keeps one processor wallet id per customer. Entries never
// expire and are never deleted.
type WalletStore struct {
	cache *redis.Client
}

func NewWalletStore(cache *redis.Client) *WalletStore {
	return &WalletStore{
		cache: cache,
	}
}

func (s *WalletStore) Get(ctx context.Context, customerID string) (string, error) {
	walletID, err := s.cache.Get(ctx, walletKeyPrefix+customerID).Result()
	if errors.Is(err, redis.Nil) {
		return "", models.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get wallet for customer %s: %w", customerID, err)
	}

	return walletID, nil
}

func (s *WalletStore) Set(ctx context.Context, wallet models.Wallet) error {
	if err := s.cache.Set(ctx, walletKeyPrefix+wallet.CustomerID, wallet.WalletID, 0).Err(); err != nil {
		return fmt.Errorf("failed to set wallet for customer %s: %w", wallet.CustomerID, err)
	}

	return nil
}

// SetIfAbsent stores the wallet unless the customer already has one and
// returns the wallet id that ends up stored.
func (s *WalletStore) SetIfAbsent(ctx context.Context, wallet models.Wallet) (string, error) {
	key := walletKeyPrefix + wallet.CustomerID

	ok, err := s.cache.SetNX(ctx, key, wallet.WalletID, 0).Result()
	if err != nil {
		return "", fmt.Errorf("failed to set wallet for customer %s: %w", wallet.CustomerID, err)
	}
	if ok {
		return wallet.WalletID, nil
	}

	return s.Get(ctx, wallet.CustomerID)
}
