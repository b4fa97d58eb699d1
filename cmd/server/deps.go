package main

import (
	"context"
	"fmt"
	"francoggm/versapay-checkout/internal/app/services/processor"
	"francoggm/versapay-checkout/internal/app/storage"
	"francoggm/versapay-checkout/internal/config"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func setupLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}

func newCache(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	cacheOpts := redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Cache.Host, cfg.Cache.Port),
		Password:     cfg.Cache.Password,
		DB:           0,
		MinIdleConns: 10,
		PoolTimeout:  60 * time.Second,
	}

	rdb := redis.NewClient(&cacheOpts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// newOrderStore returns the configured order store and a func releasing
// its connections.
func newOrderStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (storage.OrderStore, func(), error) {
	if cfg.Orders.Store != "mongo" {
		return storage.NewRedisOrderStore(rdb), func() {}, nil
	}

	opts := options.
		Client().
		ApplyURI(cfg.Orders.MongoURI).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxConnIdleTime(30 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	closeFn := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("failed to disconnect mongodb", "err", err)
		}
	}

	return storage.NewMongoOrderStore(client.Database(cfg.Orders.MongoDatabase)), closeFn, nil
}

func newProcessorClient(cfg *config.Config) *processor.Client {
	endpoint := processor.ResolveEndpoint(cfg.Versapay.Subdomain, cfg.Versapay.BaseURL)
	creds := processor.Credentials{
		APIToken: cfg.Versapay.APIToken,
		APIKey:   cfg.Versapay.APIKey,
	}

	if !cfg.Versapay.HasCredentials() {
		slog.Warn("versapay credentials are not configured, sessions and sales will be refused")
	}

	return processor.NewClient(endpoint, creds, cfg.Versapay.Timeout)
}
