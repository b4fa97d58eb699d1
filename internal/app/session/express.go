package session

import (
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"strings"
)

// BuildExpressConfig returns the Apple Pay descriptor for the widget, or an
// empty method list when no merchant identifier is configured.
func BuildExpressConfig(cfg config.Versapay, host, currency string) models.ExpressConfig {
	if cfg.ApplePayMerchantIdentifier == "" {
		return models.ExpressConfig{PaymentMethods: []string{}}
	}

	return models.ExpressConfig{
		PaymentMethods: []string{models.PaymentTypeApplePay},
		ApplePay: &models.ApplePayOptions{
			MerchantIdentifier:   cfg.ApplePayMerchantIdentifier,
			DisplayName:          cfg.ApplePayDisplayName,
			InitiativeContext:    cfg.ApplePayInitiativeContext,
			MerchantCapabilities: []string{"supports3DS"},
			SupportedNetworks:    []string{"amex", "masterCard", "visa"},
			EcommSubdomain:       host,
			CountryCode:          "US",
			CurrencyCode:         strings.ToUpper(currency),
		},
	}
}
