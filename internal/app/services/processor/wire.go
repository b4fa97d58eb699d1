package processor

import (
	"encoding/json"
	"francoggm/versapay-checkout/internal/models"
)

type Credentials struct {
	APIToken string `json:"apiToken"`
	APIKey   string `json:"apiKey"`
}

func (c Credentials) Valid() bool {
	return c.APIToken != "" && c.APIKey != ""
}

type walletRequest struct {
	GatewayAuthorization Credentials `json:"gatewayAuthorization"`
}

type walletResponse struct {
	WalletID string `json:"walletId"`
}

type sessionRequest struct {
	GatewayAuthorization Credentials    `json:"gatewayAuthorization"`
	Options              sessionOptions `json:"options"`
}

type sessionOptions struct {
	OrderTotal   json.Number          `json:"orderTotal"`
	Currency     string               `json:"currency"`
	Wallet       *models.WalletOption `json:"wallet,omitempty"`
	AVSRules     models.AVSRules      `json:"avsRules"`
	PaymentTypes []models.PaymentType `json:"paymentTypes,omitempty"`
}

func newSessionOptions(opts models.SessionOptions) sessionOptions {
	return sessionOptions{
		OrderTotal:   opts.OrderTotal.Number(models.CurrencyPrecision(opts.Currency)),
		Currency:     opts.Currency,
		Wallet:       opts.Wallet,
		AVSRules:     opts.AVSRules,
		PaymentTypes: opts.PaymentTypes,
	}
}

type sessionResponse struct {
	ID         string `json:"id"`
	SessionID  string `json:"sessionId"`
	SessionKey string `json:"sessionKey"`
}

func (r sessionResponse) key() string {
	switch {
	case r.ID != "":
		return r.ID
	case r.SessionID != "":
		return r.SessionID
	default:
		return r.SessionKey
	}
}

// SaleRequest is the body of POST /sessions/{id}/sales. The client fills
// in the gateway authorization.
type SaleRequest struct {
	GatewayAuthorization            Credentials      `json:"gatewayAuthorization"`
	CustomerNumber                  string           `json:"customerNumber"`
	OrderNumber                     string           `json:"orderNumber"`
	PurchaseOrderNumber             string           `json:"purchaseOrderNumber"`
	ShippingAgentNumber             string           `json:"shippingAgentNumber"`
	ShippingAgentServiceNumber      string           `json:"shippingAgentServiceNumber"`
	ShippingAgentDescription        string           `json:"shippingAgentDescription"`
	ShippingAgentServiceDescription string           `json:"shippingAgentServiceDescription"`
	Currency                        string           `json:"currency"`
	BillingAddress                  Address          `json:"billingAddress"`
	ShippingAddress                 Address          `json:"shippingAddress"`
	Lines                           []Line           `json:"lines"`
	ShippingAmount                  json.Number      `json:"shippingAmount"`
	DiscountAmount                  json.Number      `json:"discountAmount"`
	TaxAmount                       json.Number      `json:"taxAmount"`
	Payments                        []Payment        `json:"payments,omitempty"`
	ApplePayPayment                 *ApplePayPayment `json:"applePayPayment,omitempty"`
}

type Address struct {
	ContactFirstName string `json:"contactFirstName"`
	ContactLastName  string `json:"contactLastName"`
	CompanyName      string `json:"companyName"`
	Address1         string `json:"address1"`
	Address2         string `json:"address2"`
	City             string `json:"city"`
	StateOrProvince  string `json:"stateOrProvince"`
	PostCode         string `json:"postCode"`
	Country          string `json:"country"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
}

type Line struct {
	Type        string      `json:"type"`
	Number      string      `json:"number"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Quantity    int         `json:"quantity"`
	Discount    json.Number `json:"discount"`
}

type Payment struct {
	Type            string      `json:"type"`
	Token           string      `json:"token"`
	Amount          json.Number `json:"amount"`
	Capture         bool        `json:"capture"`
	SettlementToken string      `json:"settlementToken,omitempty"`
}

type ApplePayPayment struct {
	Amount          json.Number     `json:"amount"`
	TransactionType string          `json:"transactionType"`
	Payment         json.RawMessage `json:"payment"`
}

type saleResponse struct {
	OrderID      string `json:"orderId"`
	ApprovalCode string `json:"approvalCode"`
	Payments     []struct {
		Payment struct {
			ApprovalCode string `json:"approvalCode"`
		} `json:"payment"`
	} `json:"payments"`
	Message any `json:"message"`
}

func (r saleResponse) result(express bool) *models.SaleResult {
	standard := ""
	if len(r.Payments) > 0 {
		standard = r.Payments[0].Payment.ApprovalCode
	}

	code := standard
	if express || code == "" {
		code = r.ApprovalCode
	}
	if code == "" {
		code = standard
	}

	return &models.SaleResult{
		OrderID:      r.OrderID,
		ApprovalCode: code,
	}
}
