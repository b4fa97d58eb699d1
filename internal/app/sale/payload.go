package sale

import (
	"fmt"
	"francoggm/versapay-checkout/internal/app/services/processor"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// BuildSaleRequest assembles the processor sale payload. Every amount is
// normalised to the currency's precision.
func BuildSaleRequest(cfg config.Versapay, order models.OrderContext, tokens []models.PaymentToken, express []models.ExpressPayment) (*processor.SaleRequest, error) {
	prec := models.CurrencyPrecision(order.Currency)

	shippingMethod := " "
	if len(order.ShippingMethods) > 0 && order.ShippingMethods[0] != "" {
		shippingMethod = order.ShippingMethods[0]
	}

	req := &processor.SaleRequest{
		CustomerNumber:                  order.CustomerNumber,
		OrderNumber:                     order.OrderNumber,
		PurchaseOrderNumber:             order.OrderNumber,
		ShippingAgentNumber:             shippingMethod,
		ShippingAgentServiceNumber:      shippingMethod,
		ShippingAgentDescription:        shippingMethod,
		ShippingAgentServiceDescription: shippingMethod,
		Currency:                        strings.ToUpper(order.Currency),
		BillingAddress:                  billingAddress(order.Billing),
		ShippingAddress:                 shippingAddress(order.Shipping, order.Billing),
		Lines:                           make([]processor.Line, 0, len(order.Lines)),
	}

	for i, line := range order.Lines {
		price, err := line.Price.Minor(prec)
		if err != nil {
			return nil, fmt.Errorf("lines[%d].price: %w", i, err)
		}

		req.Lines = append(req.Lines, processor.Line{
			Type:        "Item",
			Number:      line.SKU,
			Description: stripTags(line.Description),
			Price:       price.Number(prec),
			Quantity:    line.Quantity,
			Discount:    "0",
		})
	}

	shipping, err := order.ShippingTotal.Minor(prec)
	if err != nil {
		return nil, fmt.Errorf("shippingTotal: %w", err)
	}
	discount, err := order.DiscountTotal.Minor(prec)
	if err != nil {
		return nil, fmt.Errorf("discountTotal: %w", err)
	}

	var tax models.Amount
	for i, t := range order.Taxes {
		v, err := t.Minor(prec)
		if err != nil {
			return nil, fmt.Errorf("taxes[%d]: %w", i, err)
		}
		tax += v
	}

	req.ShippingAmount = shipping.Number(prec)
	req.DiscountAmount = discount.Number(prec)
	req.TaxAmount = tax.Number(prec)

	for i, token := range tokens {
		amount, err := token.Amount.Minor(prec)
		if err != nil {
			return nil, fmt.Errorf("payments[%d].amount: %w", i, err)
		}

		req.Payments = append(req.Payments, processor.Payment{
			Type:            token.PaymentType,
			Token:           token.Token,
			Amount:          amount.Number(prec),
			Capture:         token.PaymentType != models.PaymentTypeCreditCard,
			SettlementToken: settlementToken(cfg, token.PaymentType),
		})
	}

	if len(express) > 0 && express[0].PaymentType == models.PaymentTypeApplePay {
		amount, err := express[0].Amount.Minor(prec)
		if err != nil {
			return nil, fmt.Errorf("applePayPayment.amount: %w", err)
		}

		req.ApplePayPayment = &processor.ApplePayPayment{
			Amount:          amount.Number(prec),
			TransactionType: "sale",
			Payment:         express[0].Payment,
		}
	}

	return req, nil
}

func settlementToken(cfg config.Versapay, paymentType string) string {
	switch paymentType {
	case models.PaymentTypeACH:
		return cfg.ACHSettlementToken
	case models.PaymentTypeCreditCard:
		return cfg.CCSettlementToken
	default:
		return ""
	}
}

func billingAddress(billing models.Address) processor.Address {
	return processor.Address{
		ContactFirstName: billing.FirstName,
		ContactLastName:  billing.LastName,
		CompanyName:      billing.Company,
		Address1:         billing.Address1,
		Address2:         billing.Address2,
		City:             billing.City,
		StateOrProvince:  billing.State,
		PostCode:         billing.PostCode,
		Country:          billing.Country,
		Phone:            billing.Phone,
		Email:            billing.Email,
	}
}

// shippingAddress falls back to billing field by field. Email always comes
// from billing.
func shippingAddress(shipping, billing models.Address) processor.Address {
	return processor.Address{
		ContactFirstName: fallback(shipping.FirstName, billing.FirstName),
		ContactLastName:  fallback(shipping.LastName, billing.LastName),
		CompanyName:      fallback(shipping.Company, billing.Company),
		Address1:         fallback(shipping.Address1, billing.Address1),
		Address2:         fallback(shipping.Address2, billing.Address2),
		City:             fallback(shipping.City, billing.City),
		StateOrProvince:  fallback(shipping.State, billing.State),
		PostCode:         fallback(shipping.PostCode, billing.PostCode),
		Country:          fallback(shipping.Country, billing.Country),
		Phone:            fallback(shipping.Phone, billing.Phone),
		Email:            billing.Email,
	}
}

func fallback(value, def string) string {
	if value != "" {
		return value
	}
	return def
}

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
