package models

type Session struct {
	SessionID string         `json:"sessionId"`
	Amount    Amount         `json:"amount"`
	Currency  string         `json:"currency"`
	Options   SessionOptions `json:"options"`
}

type SessionOptions struct {
	OrderTotal   Amount
	Currency     string
	Wallet       *WalletOption
	AVSRules     AVSRules
	PaymentTypes []PaymentType
}

type WalletOption struct {
	ID            string `json:"id"`
	AllowAdd      bool   `json:"allowAdd"`
	AllowEdit     bool   `json:"allowEdit"`
	AllowDelete   bool   `json:"allowDelete"`
	SaveByDefault bool   `json:"saveByDefault"`
}

type AVSRules struct {
	RejectAddressMismatch  bool `json:"rejectAddressMismatch"`
	RejectPostCodeMismatch bool `json:"rejectPostCodeMismatch"`
	RejectUnknown          bool `json:"rejectUnknown"`
}

type PaymentType struct {
	Name     string         `json:"name"`
	Label    string         `json:"label"`
	Promoted bool           `json:"promoted"`
	Fields   []PaymentField `json:"fields"`
}

type PaymentField struct {
	Name             string `json:"name"`
	Label            string `json:"label"`
	ErrorLabel       string `json:"errorLabel"`
	AllowLabelUpdate *bool  `json:"allowLabelUpdate,omitempty"`
}

type Wallet struct {
	WalletID   string `json:"walletId"`
	CustomerID string `json:"customerId"`
}

type ExpressConfig struct {
	PaymentMethods []string         `json:"paymentMethods"`
	ApplePay       *ApplePayOptions `json:"applePay,omitempty"`
}

type ApplePayOptions struct {
	MerchantIdentifier   string   `json:"merchantIdentifier"`
	DisplayName          string   `json:"displayName"`
	InitiativeContext    string   `json:"initiativeContext"`
	MerchantCapabilities []string `json:"merchantCapabilities"`
	SupportedNetworks    []string `json:"supportedNetworks"`
	EcommSubdomain       string   `json:"ecommSubdomain"`
	CountryCode          string   `json:"countryCode"`
	CurrencyCode         string   `json:"currencyCode"`
}
