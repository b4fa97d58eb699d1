package session

import (
	"context"
	"errors"
	"francoggm/versapay-checkout/internal/app/services/processor"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"strings"
	"time"
)

const (
	StrategyRender   = "render"
	StrategyOnDemand = "on_demand"
)

// API is the part of the processor client the provisioner needs.
type API interface {
	HasCredentials() bool
	Endpoint() processor.Endpoint
	CreateWallet(ctx context.Context) (string, error)
	CreateSession(ctx context.Context, opts models.SessionOptions) (string, error)
}

type WalletStore interface {
	Get(ctx context.Context, customerID string) (string, error)
	SetIfAbsent(ctx context.Context, wallet models.Wallet) (string, error)
}

type Request struct {
	Amount     models.Amount
	Currency   string
	CustomerID string
	CheckoutID string
}

type Provisioner struct {
	cfg     *config.Config
	api     API
	wallets WalletStore
	nonces  *NonceSigner
}

type Option func(*Provisioner)

// WithClock overrides the clock used for refresh nonces.
func WithClock(clock func() time.Time) Option {
	return func(p *Provisioner) {
		p.nonces = NewNonceSigner(p.cfg.Checkout.NonceSecret, p.cfg.Checkout.NonceTTL, clock)
	}
}

func NewProvisioner(cfg *config.Config, api API, wallets WalletStore, opts ...Option) *Provisioner {
	p := &Provisioner{
		cfg:     cfg,
		api:     api,
		wallets: wallets,
		nonces:  NewNonceSigner(cfg.Checkout.NonceSecret, cfg.Checkout.NonceTTL, nil),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Provision mints a new processor session for the amount. Every call
// creates an independent session.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*models.Session, error) {
	if !p.api.HasCredentials() {
		return nil, models.NewCheckoutError(models.ErrConfiguration, "missing api credentials", nil)
	}

	currency := strings.ToUpper(req.Currency)
	walletID := p.resolveWallet(ctx, req.CustomerID)
	opts := BuildOptions(p.cfg.Versapay, req.Amount, currency, walletID)

	sessionID, err := p.api.CreateSession(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &models.Session{
		SessionID: sessionID,
		Amount:    req.Amount,
		Currency:  currency,
		Options:   opts,
	}, nil
}

// Refresh mints a session for the on-demand strategy after checking the
// nonce issued at render time. The nonce binds the checkout and customer,
// so a refresh cannot pick up another customer's wallet.
func (p *Provisioner) Refresh(ctx context.Context, req Request, nonce string) (*models.Session, error) {
	if err := p.nonces.Verify(nonce, req.CheckoutID, req.CustomerID); err != nil {
		return nil, err
	}

	return p.Provision(ctx, req)
}

func (p *Provisioner) ExpressConfig(currency string) models.ExpressConfig {
	return BuildExpressConfig(p.cfg.Versapay, p.api.Endpoint().Host, currency)
}

// resolveWallet never fails the session: any error drops the wallet option.
func (p *Provisioner) resolveWallet(ctx context.Context, customerID string) string {
	if customerID == "" {
		return ""
	}

	walletID, err := p.wallets.Get(ctx, customerID)
	if err == nil && walletID != "" {
		return walletID
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		slog.Warn("failed to lookup wallet", "customer_id", customerID, "err", err)
		return ""
	}

	walletID, err = p.api.CreateWallet(ctx)
	if err != nil {
		slog.Warn("failed to create wallet, continuing without it", "customer_id", customerID, "err", err)
		return ""
	}

	stored, err := p.wallets.SetIfAbsent(ctx, models.Wallet{WalletID: walletID, CustomerID: customerID})
	if err != nil {
		slog.Warn("failed to store wallet", "customer_id", customerID, "err", err)
		return walletID
	}

	return stored
}
