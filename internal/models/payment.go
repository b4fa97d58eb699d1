package models

import "encoding/json"

const (
	PaymentTypeCreditCard = "creditCard"
	PaymentTypeACH        = "ach"
	PaymentTypeGiftCard   = "giftCard"
	PaymentTypeApplePay   = "applePay"
)

// Hidden checkout form fields shared by the widget and the sale finalizer.
const (
	FieldSessionKey      = "versapay_session_key"
	FieldError           = "versapay_error"
	FieldPayments        = "versapay_payments"
	FieldExpressPayment  = "versapay_express_checkout_payment"
	FieldVersapayOrderID = "versapayOrderId"
	FieldApprovalCode    = "versapayApprovalCode"
)

type PaymentToken struct {
	Token       string  `json:"token"`
	PaymentType string  `json:"payment_type"`
	Amount      Decimal `json:"amount"`
}

type ExpressPayment struct {
	PaymentType string          `json:"payment_type"`
	Payment     json.RawMessage `json:"payment"`
	Amount      Decimal         `json:"amount"`
}

type SaleResult struct {
	OrderID      string `json:"orderId"`
	ApprovalCode string `json:"approvalCode"`

	// Bridged is set once the result sits in the payment slot.
	Bridged bool `json:"-"`
}
