package widget

import (
	"encoding/json"
	"francoggm/versapay-checkout/internal/models"
)

const (
	DefaultGatewayID = "versapay"

	PlaceOrder      = "#place_order"
	FinalPlaceOrder = "#final_place_order"
	Container       = "#versapay-container"

	placeOrderNamespace      = "click.versapayPlaceOrder"
	finalPlaceOrderNamespace = "click.versapayFinalPlaceOrder"
)

// Event is a click delivered to a bound handler. Unless PreventDefault is
// called the host performs the control's native action afterwards.
type Event interface {
	Target() string
	PreventDefault()
}

// Host is the checkout page the controller drives.
type Host interface {
	CartTotal() models.Amount
	SelectedPaymentMethod() string
	ElementExists(selector string) bool
	ViewportWidth() int

	SetField(name, value string)
	ShowError(message string)
	ClearErrors()

	// CloneSubmit hides control and inserts a disabled button-type copy
	// with the clone id right after it.
	CloneSubmit(control, clone string)
	SetSubmitEnabled(control string, enabled bool)

	// Bind registers handler for clicks on control under namespace,
	// replacing whatever was bound under the same namespace. Handlers run
	// on the scheduler goroutine.
	Bind(control, namespace string, handler func(Event))
	Click(control string)
}

// Approval is what the widget reports once tokenization succeeded.
type Approval struct {
	Token           string           `json:"token"`
	PaymentTypeName string           `json:"paymentTypeName"`
	Amount          models.Decimal   `json:"amount"`
	Payment         json.RawMessage  `json:"payment,omitempty"`
	PartialPayments []PartialPayment `json:"partialPayments,omitempty"`
}

type PartialPayment struct {
	Token           string         `json:"token"`
	PaymentTypeName string         `json:"paymentTypeName"`
	Amount          models.Decimal `json:"amount"`
}

func (a Approval) Express() bool {
	return len(a.Payment) > 0 && string(a.Payment) != "null"
}

// Tokens lists partial payments first, then the final token.
func (a Approval) Tokens() []models.PaymentToken {
	tokens := make([]models.PaymentToken, 0, len(a.PartialPayments)+1)
	for _, p := range a.PartialPayments {
		tokens = append(tokens, models.PaymentToken{Token: p.Token, PaymentType: p.PaymentTypeName, Amount: p.Amount})
	}
	return append(tokens, models.PaymentToken{Token: a.Token, PaymentType: a.PaymentTypeName, Amount: a.Amount})
}
