package sale

import (
	"encoding/json"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSaleRequest(t *testing.T) {
	cfg := config.Versapay{ACHSettlementToken: "ach-settle"}
	order := testOrder()
	order.DiscountTotal = "2.5"

	tokens := []models.PaymentToken{
		{Token: "a1", PaymentType: models.PaymentTypeACH, Amount: "49.99"},
	}

	req, err := BuildSaleRequest(cfg, order, tokens, nil)
	require.NoError(t, err)

	assert.Equal(t, " ", req.ShippingAgentNumber)
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, json.Number("5.00"), req.ShippingAmount)
	assert.Equal(t, json.Number("2.50"), req.DiscountAmount)
	assert.Equal(t, json.Number("3.25"), req.TaxAmount)
	assert.Equal(t, "ada@example.com", req.ShippingAddress.Email)
	assert.Equal(t, "1 Main St", req.ShippingAddress.Address1)
	assert.Equal(t, "Shelbyville", req.ShippingAddress.City)
	assert.Equal(t, "Springfield", req.BillingAddress.City)

	require.Len(t, req.Lines, 1)
	assert.Equal(t, "SKU-1", req.Lines[0].Number)
	assert.Equal(t, "Widget", req.Lines[0].Description)
	assert.Equal(t, json.Number("41.74"), req.Lines[0].Price)
	assert.Equal(t, json.Number("0"), req.Lines[0].Discount)

	require.Len(t, req.Payments, 1)
	assert.True(t, req.Payments[0].Capture)
	assert.Equal(t, "ach-settle", req.Payments[0].SettlementToken)
	assert.Nil(t, req.ApplePayPayment)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Blue Widget (XL)", stripTags("<span class=\"x\">Blue <em>Widget</em></span> (XL)"))
}

func TestValidateOrder(t *testing.T) {
	order := testOrder()
	order.Currency = "US"

	err := ValidateOrder(order)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "currency")
}
