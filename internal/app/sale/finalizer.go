package sale

import (
	"context"
	"errors"
	"fmt"
	"francoggm/versapay-checkout/internal/app/services/processor"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"strings"
)

type API interface {
	CreateSale(ctx context.Context, sessionID string, req *processor.SaleRequest) (*models.SaleResult, error)
}

type SlotStore interface {
	Put(ctx context.Context, checkoutID string, result *models.SaleResult) error
	Get(ctx context.Context, checkoutID string) (*models.SaleResult, error)
	Clear(ctx context.Context, checkoutID string) error
}

type Finalizer struct {
	cfg   *config.Config
	api   API
	slots SlotStore
}

func NewFinalizer(cfg *config.Config, api API, slots SlotStore) *Finalizer {
	return &Finalizer{
		cfg:   cfg,
		api:   api,
		slots: slots,
	}
}

// Finalize validates the submitted tokens against the order and charges
// them. Checks run in order and the first failure wins; the processor is
// only contacted once every check passed. The call is never retried.
//
// For a logged-in customer the result is parked in the payment slot keyed
// by the checkout id. Bridged reports whether that happened; when it is
// false the caller echoes the result back to the store.
func (f *Finalizer) Finalize(ctx context.Context, order models.OrderContext, fields SubmittedFields) (*models.SaleResult, error) {
	result, err := f.finalize(ctx, order, fields)
	if err != nil {
		slog.Error("Versapay Payments Error", "order", order.OrderNumber, "err", err)
		return nil, err
	}

	if order.CustomerID != "" && order.CheckoutID != "" {
		if err := f.slots.Put(ctx, order.CheckoutID, result); err != nil {
			slog.Error("failed to store payment slot, echoing result", "order", order.OrderNumber, "err", err)
		} else {
			result.Bridged = true
		}
	}

	return result, nil
}

func (f *Finalizer) finalize(ctx context.Context, order models.OrderContext, fields SubmittedFields) (*models.SaleResult, error) {
	if clientErr := fields.ClientError(); clientErr != "" {
		return nil, models.ValidationError("client reported tokenization error: " + clientErr)
	}

	for i, line := range order.Lines {
		if strings.TrimSpace(line.SKU) == "" {
			return nil, models.ProductError(fmt.Sprintf("line %d is missing required product details (SKU)", i))
		}
	}

	if err := ValidateOrder(order); err != nil {
		return nil, err
	}

	tokens, express, err := decodePayments(fields)
	if err != nil {
		return nil, err
	}

	if err := checkTotal(order, tokens, express); err != nil {
		return nil, err
	}

	req, err := BuildSaleRequest(f.cfg.Versapay, order, tokens, express)
	if err != nil {
		return nil, models.NewCheckoutError(models.ErrValidation, "failed to build sale payload", err)
	}

	sessionKey := fields.SessionKey()
	if sessionKey == "" {
		return nil, models.NewCheckoutError(models.ErrConfiguration, "missing session key", nil)
	}

	result, err := f.api.CreateSale(ctx, sessionKey, req)
	if err != nil {
		var checkoutErr *models.CheckoutError
		if errors.As(err, &checkoutErr) {
			return nil, err
		}
		return nil, models.NewCheckoutError(models.ErrTransport, "sale request failed", err)
	}

	return result, nil
}

func decodePayments(fields SubmittedFields) ([]models.PaymentToken, []models.ExpressPayment, error) {
	tokens, err := fields.Tokens()
	if err != nil {
		return nil, nil, models.NewCheckoutError(models.ErrValidation, "undecodable "+models.FieldPayments, err)
	}

	express, err := fields.ExpressPayments()
	if err != nil {
		return nil, nil, models.NewCheckoutError(models.ErrValidation, "undecodable "+models.FieldExpressPayment, err)
	}

	if len(tokens) == 0 && len(express) == 0 {
		return nil, nil, models.ValidationError("missing payment token in the response")
	}

	return tokens, express, nil
}

// checkTotal compares in minor units; a single-unit difference fails.
func checkTotal(order models.OrderContext, tokens []models.PaymentToken, express []models.ExpressPayment) error {
	prec := models.CurrencyPrecision(order.Currency)

	total, err := order.Total.Minor(prec)
	if err != nil {
		return models.NewCheckoutError(models.ErrValidation, "invalid order total", err)
	}

	var paid models.Amount
	for i, token := range tokens {
		amount, err := token.Amount.Minor(prec)
		if err != nil {
			return models.NewCheckoutError(models.ErrValidation, fmt.Sprintf("invalid amount on payment %d", i), err)
		}
		paid += amount
	}

	if len(express) > 0 {
		amount, err := express[0].Amount.Minor(prec)
		if err != nil {
			return models.NewCheckoutError(models.ErrValidation, "invalid express payment amount", err)
		}
		paid += amount
	}

	if paid != total {
		return models.ValidationError(fmt.Sprintf(
			"the payment amount %s does not match the order total amount %s",
			paid.Decimal(prec), total.Decimal(prec),
		))
	}

	return nil
}
