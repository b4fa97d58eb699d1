package session

import (
	"context"
	"francoggm/versapay-checkout/internal/models"
	"log/slog"
	"strings"

	"github.com/bytedance/sonic"
)

const (
	ContainerID     = "versapay-container"
	ContainerHeight = "360px"
	ContainerWidth  = "500px"
)

// RenderData is everything the checkout page needs to mount the widget.
type RenderData struct {
	GatewayID             string        `json:"gatewayId"`
	SessionKey            string        `json:"sessionKey"`
	Amount                models.Amount `json:"amountMinor"`
	Currency              string        `json:"currency"`
	CustomerID            string        `json:"customerId,omitempty"`
	EcomBaseURL           string        `json:"ecomBaseURL"`
	SDKURL                string        `json:"sdkURL"`
	ExpressCheckoutConfig string        `json:"expressCheckoutConfig"`
	Strategy              string        `json:"strategy"`
	RefreshNonce          string        `json:"refreshNonce,omitempty"`
	Container             string        `json:"container"`
	Height                string        `json:"height"`
	Width                 string        `json:"width"`
	Fields                []string      `json:"fields"`
}

// Render never fails the page. A provisioning failure leaves SessionKey
// empty and is logged.
func (p *Provisioner) Render(ctx context.Context, req Request) RenderData {
	endpoint := p.api.Endpoint()

	express, err := sonic.MarshalString(p.ExpressConfig(req.Currency))
	if err != nil {
		slog.Error("failed to encode express checkout config", "err", err)
		express = `{"paymentMethods":[]}`
	}

	data := RenderData{
		GatewayID:             p.cfg.Checkout.GatewayID,
		Amount:                req.Amount,
		Currency:              strings.ToUpper(req.Currency),
		CustomerID:            req.CustomerID,
		EcomBaseURL:           endpoint.APIBase,
		SDKURL:                endpoint.SDKURL,
		ExpressCheckoutConfig: express,
		Strategy:              p.cfg.Checkout.Strategy,
		Container:             "#" + ContainerID,
		Height:                ContainerHeight,
		Width:                 ContainerWidth,
		Fields: []string{
			models.FieldSessionKey,
			models.FieldError,
			models.FieldPayments,
			models.FieldExpressPayment,
		},
	}

	if p.cfg.Checkout.Strategy == StrategyOnDemand {
		data.RefreshNonce = p.nonces.Issue(req.CheckoutID, req.CustomerID)
		return data
	}

	session, err := p.Provision(ctx, req)
	if err != nil {
		slog.Error("versapay session creation failed", "checkout_id", req.CheckoutID, "err", err)
		return data
	}

	data.SessionKey = session.SessionID
	return data
}
