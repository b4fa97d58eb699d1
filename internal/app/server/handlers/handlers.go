package handlers

import (
	"context"
	"francoggm/versapay-checkout/internal/app/sale"
	"francoggm/versapay-checkout/internal/app/session"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"

	"github.com/redis/go-redis/v9"
)

type Provisioner interface {
	Render(ctx context.Context, req session.Request) session.RenderData
	Refresh(ctx context.Context, req session.Request, nonce string) (*models.Session, error)
}

type Finalizer interface {
	Finalize(ctx context.Context, order models.OrderContext, fields sale.SubmittedFields) (*models.SaleResult, error)
}

type Recorder interface {
	Persist(ctx context.Context, orderID, checkoutID string, echoed models.OrderMeta) (models.OrderMeta, error)
	Lookup(ctx context.Context, orderID string) (models.OrderMeta, error)
}

type WalletWriter interface {
	Set(ctx context.Context, wallet models.Wallet) error
}

type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type Handlers struct {
	cfg         *config.Config
	provisioner Provisioner
	finalizer   Finalizer
	recorder    Recorder
	wallets     WalletWriter
	cache       Pinger
}

func NewHandlers(cfg *config.Config, provisioner Provisioner, finalizer Finalizer, recorder Recorder, wallets WalletWriter, cache Pinger) *Handlers {
	return &Handlers{
		cfg:         cfg,
		provisioner: provisioner,
		finalizer:   finalizer,
		recorder:    recorder,
		wallets:     wallets,
		cache:       cache,
	}
}
