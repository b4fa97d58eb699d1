package widget

import (
	"context"
	"fmt"
	"francoggm/versapay-checkout/internal/app/session"
	"francoggm/versapay-checkout/internal/models"
)

// SessionSource hands out the session key used to initialise a client.
// A key is only ever handed out for the amount it was minted for. done is
// always invoked on the scheduler goroutine.
type SessionSource interface {
	SessionKey(amount models.Amount, forceRefresh bool, done func(key string, err error))
}

// StaticSession serves the key rendered with the page. It cannot mint
// keys, so a request for any other amount fails until the page renders a
// new key through Update.
type StaticSession struct {
	sched  Scheduler
	key    string
	amount models.Amount
}

func NewStaticSession(sched Scheduler, key string, amount models.Amount) *StaticSession {
	return &StaticSession{
		sched:  sched,
		key:    key,
		amount: amount,
	}
}

// Update replaces the rendered key after the page re-rendered the
// checkout for a new amount.
func (s *StaticSession) Update(key string, amount models.Amount) {
	s.sched.Post(func() {
		s.key = key
		s.amount = amount
	})
}

func (s *StaticSession) SessionKey(amount models.Amount, _ bool, done func(string, error)) {
	s.sched.Post(func() {
		if s.key == "" {
			done("", fmt.Errorf("%w: no session key rendered", models.ErrConfiguration))
			return
		}
		if amount != s.amount {
			done("", fmt.Errorf("%w: rendered session covers %d, checkout total is %d", models.ErrSessionRejected, s.amount, amount))
			return
		}
		done(s.key, nil)
	})
}

// SessionSourceFor picks the source matching how the page was rendered.
// remote only needs the transport settings; nonce, customer and currency
// come from data.
func SessionSourceFor(ctx context.Context, sched Scheduler, host Host, data session.RenderData, remote RemoteSessionConfig) SessionSource {
	if data.Strategy == session.StrategyOnDemand {
		remote.Nonce = data.RefreshNonce
		remote.CustomerID = data.CustomerID
		if remote.Currency == "" {
			remote.Currency = data.Currency
			remote.Precision = models.CurrencyPrecision(data.Currency)
		}
		return NewRemoteSession(ctx, sched, host, remote)
	}

	return NewStaticSession(sched, data.SessionKey, data.Amount)
}

// OptionsFor builds controller options from the data rendered with the page.
func OptionsFor(data session.RenderData, locale string) Options {
	return Options{
		GatewayID:     data.GatewayID,
		Currency:      data.Currency,
		Locale:        locale,
		ExpressConfig: data.ExpressCheckoutConfig,
	}
}
