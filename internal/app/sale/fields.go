package sale

import (
	"francoggm/versapay-checkout/internal/models"
	"strings"

	"github.com/bytedance/sonic"
)

// SubmittedFields are the hidden checkout form fields posted with the order.
type SubmittedFields map[string]string

func (f SubmittedFields) get(name string) string {
	return strings.TrimSpace(f[name])
}

func (f SubmittedFields) SessionKey() string {
	return f.get(models.FieldSessionKey)
}

func (f SubmittedFields) ClientError() string {
	return f.get(models.FieldError)
}

func (f SubmittedFields) Tokens() ([]models.PaymentToken, error) {
	raw := f.get(models.FieldPayments)
	if raw == "" {
		return nil, nil
	}

	var tokens []models.PaymentToken
	if err := sonic.UnmarshalString(raw, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (f SubmittedFields) ExpressPayments() ([]models.ExpressPayment, error) {
	raw := f.get(models.FieldExpressPayment)
	if raw == "" {
		return nil, nil
	}

	var payments []models.ExpressPayment
	if err := sonic.UnmarshalString(raw, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// EchoFields returns the fields a guest checkout posts back so the order
// step can persist the sale result.
func EchoFields(result *models.SaleResult) map[string]string {
	return map[string]string{
		models.FieldVersapayOrderID: result.OrderID,
		models.FieldApprovalCode:    result.ApprovalCode,
	}
}
