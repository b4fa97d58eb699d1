package widget

import "encoding/json"

// SDK is the vendor hosted-fields script.
type SDK interface {
	Ready() bool
	InitClient(cfg ClientConfig) (Client, error)
	// TeardownClient must accept a nil client.
	TeardownClient(client Client)
}

type ClientConfig struct {
	SessionKey    string
	Styles        map[string]any
	Amount        json.Number
	Locale        string
	ExpressConfig map[string]any
}

// Client is one widget instance. Callbacks may arrive on any goroutine.
type Client interface {
	InitFrame(container, height, width string, done func(error))
	OnPartialPayment(onSuccess func(), onError func(error))
	OnApproval(onSuccess func(Approval), onError func(error))
	SubmitEvents()
}
