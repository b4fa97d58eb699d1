package widget

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"resty.dev/v3"
)

type RemoteSessionConfig struct {
	URL        string
	Nonce      string
	Currency   string
	Precision  int
	CookieName string
	CheckoutID string
	CustomerID string

	Timeout   time.Duration
	Retries   int
	RetryWait time.Duration
}

type refreshResponse struct {
	Success bool `json:"success"`
	Data    struct {
		SessionKey string `json:"sessionKey"`
	} `json:"data"`
}

const customerHeader = "X-Customer-Id"

var errSuperseded = errors.New("session request superseded")

// RemoteSession fetches session keys from the refresh endpoint. A key is
// cached together with the amount it was minted for. Concurrent requests
// for the same amount share one fetch; a forced refresh or a new amount
// discards any fetch already in flight.
type RemoteSession struct {
	ctx    context.Context
	sched  Scheduler
	host   Host
	client *resty.Client
	cfg    RemoteSessionConfig

	// owned by the scheduler goroutine
	key            string
	keyAmount      models.Amount
	gen            uint64
	inflight       bool
	inflightAmount models.Amount
	waiters        []func(string, error)
}

func NewRemoteSession(ctx context.Context, sched Scheduler, host Host, cfg RemoteSessionConfig) *RemoteSession {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait).
		SetAllowNonIdempotentRetry(true).
		AddRetryConditions(func(r *resty.Response, err error) bool {
			return err != nil || r == nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &RemoteSession{
		ctx:    ctx,
		sched:  sched,
		host:   host,
		client: client,
		cfg:    cfg,
	}
}

func (s *RemoteSession) SessionKey(amount models.Amount, forceRefresh bool, done func(string, error)) {
	s.sched.Post(func() {
		if forceRefresh || s.keyAmount != amount {
			s.key = ""
		}
		if s.inflight && (forceRefresh || s.inflightAmount != amount) {
			s.supersede()
		}

		if s.key != "" {
			done(s.key, nil)
			return
		}

		s.waiters = append(s.waiters, done)
		if s.inflight {
			return
		}

		s.inflight = true
		s.inflightAmount = amount
		gen := s.gen
		go func() {
			key, err := s.fetch(amount)
			s.sched.Post(func() { s.resolve(gen, amount, key, err) })
		}()
	})
}

// supersede abandons the fetch in flight and fails its waiters.
func (s *RemoteSession) supersede() {
	s.gen++
	s.inflight = false

	waiters := s.waiters
	s.waiters = nil
	for _, done := range waiters {
		done("", errSuperseded)
	}
}

// Close stops idle connections of the underlying client.
func (s *RemoteSession) Close() error {
	return s.client.Close()
}

func (s *RemoteSession) resolve(gen uint64, amount models.Amount, key string, err error) {
	if gen != s.gen {
		return
	}

	waiters := s.waiters
	s.waiters = nil
	s.inflight = false

	if err != nil {
		slog.Error("failed to refresh session key", "err", err)
	} else {
		s.key = key
		s.keyAmount = amount
		s.host.SetField(models.FieldSessionKey, key)
	}

	for _, done := range waiters {
		done(key, err)
	}
}

func (s *RemoteSession) fetch(amount models.Amount) (string, error) {
	req := s.client.R().
		SetContext(s.ctx).
		SetFormData(map[string]string{
			"nonce":    s.cfg.Nonce,
			"amount":   amount.Decimal(s.cfg.Precision),
			"currency": s.cfg.Currency,
		})

	if s.cfg.CookieName != "" && s.cfg.CheckoutID != "" {
		req.SetCookie(&http.Cookie{Name: s.cfg.CookieName, Value: s.cfg.CheckoutID})
	}
	if s.cfg.CustomerID != "" {
		req.SetHeader(customerHeader, s.cfg.CustomerID)
	}

	resp, err := req.Post(s.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrTransport, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("%w: session refresh returned status %d", models.ErrTransport, resp.StatusCode())
	}

	var out refreshResponse
	if err := sonic.UnmarshalString(resp.String(), &out); err != nil {
		return "", fmt.Errorf("%w: failed to decode session refresh: %w", models.ErrTransport, err)
	}

	if !out.Success || out.Data.SessionKey == "" {
		return "", errors.New("session refresh did not return a key")
	}

	return out.Data.SessionKey, nil
}
