package session

import (
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"slices"
	"strings"
)

const (
	avsRejectAddressMismatch  = "rejectAddressMismatch"
	avsRejectPostCodeMismatch = "rejectPostCodeMismatch"
	avsRejectUnknown          = "rejectUnknown"
)

// BuildOptions assembles the session options for one amount. The wallet
// option is attached only when walletID is non-empty.
func BuildOptions(cfg config.Versapay, amount models.Amount, currency, walletID string) models.SessionOptions {
	opts := models.SessionOptions{
		OrderTotal: amount,
		Currency:   strings.ToUpper(currency),
		AVSRules: models.AVSRules{
			RejectAddressMismatch:  slices.Contains(cfg.AVSRules, avsRejectAddressMismatch),
			RejectPostCodeMismatch: slices.Contains(cfg.AVSRules, avsRejectPostCodeMismatch),
			RejectUnknown:          slices.Contains(cfg.AVSRules, avsRejectUnknown),
		},
	}

	if walletID != "" {
		opts.Wallet = &models.WalletOption{
			ID:            walletID,
			AllowAdd:      true,
			AllowEdit:     true,
			AllowDelete:   true,
			SaveByDefault: cfg.SavePaymentMethodByDefault,
		}
	}

	if cfg.CCEnabled {
		opts.PaymentTypes = append(opts.PaymentTypes, creditCardType())
	}
	if cfg.ACHEnabled {
		opts.PaymentTypes = append(opts.PaymentTypes, achType())
	}
	if cfg.GCEnabled {
		opts.PaymentTypes = append(opts.PaymentTypes, giftCardType())
	}

	return opts
}

func creditCardType() models.PaymentType {
	noLabelUpdate := false
	return models.PaymentType{
		Name:  models.PaymentTypeCreditCard,
		Label: "Payment Card",
		Fields: []models.PaymentField{
			{Name: "cardholderName", Label: "Cardholder Name", ErrorLabel: "Cardholder name"},
			{Name: "accountNo", Label: "Account Number", ErrorLabel: "Credit card number"},
			{Name: "expDate", Label: "Expiration Date", ErrorLabel: "Expiration date"},
			{Name: "cvv", Label: "Security code", ErrorLabel: "Security code", AllowLabelUpdate: &noLabelUpdate},
		},
	}
}

func achType() models.PaymentType {
	return models.PaymentType{
		Name:  models.PaymentTypeACH,
		Label: "Bank Account",
		Fields: []models.PaymentField{
			{Name: "accountType", Label: "Account Type", ErrorLabel: "Account type"},
			{Name: "checkType", Label: "Check Type", ErrorLabel: "Check type"},
			{Name: "accountHolder", Label: "Account Holder", ErrorLabel: "Account holder name"},
			{Name: "routingNo", Label: "Routing Number", ErrorLabel: "Routing number"},
			{Name: "achAccountNo", Label: "Account Number", ErrorLabel: "Bank account number"},
		},
	}
}

func giftCardType() models.PaymentType {
	return models.PaymentType{
		Name:  models.PaymentTypeGiftCard,
		Label: "Gift Card",
		Fields: []models.PaymentField{
			{Name: "gcAccountNo", Label: "Account Number", ErrorLabel: "Gift card number"},
			{Name: "expDate", Label: "Expiration Date", ErrorLabel: "Expiration date"},
			{Name: "pin", Label: "PIN", ErrorLabel: "PIN"},
		},
	}
}
