package models

const (
	MetaOrderID      = "versapay_orderid"
	MetaApprovalCode = "versapay_approval_code"

	OrderStatusProcessing = "processing"
)

type OrderMeta struct {
	VersapayOrderID string `json:"versapay_orderid" bson:"versapay_orderid"`
	ApprovalCode    string `json:"versapay_approval_code" bson:"versapay_approval_code"`
}

func (m OrderMeta) Empty() bool {
	return m.VersapayOrderID == "" && m.ApprovalCode == ""
}

// OrderCompletion is the event handed to the completion workers once
// metadata has been persisted.
type OrderCompletion struct {
	OrderID string    `json:"orderId"`
	Meta    OrderMeta `json:"meta"`
}

func (c OrderCompletion) TransactionID() string {
	return c.Meta.ApprovalCode
}

const OrderProcessedNote = "Order processed via VersaPay."

func (c OrderCompletion) Notes() []string {
	notes := []string{OrderProcessedNote}
	if c.Meta.ApprovalCode != "" {
		notes = append(notes, "Versapay Payments Approval Code: "+c.Meta.ApprovalCode)
	}
	if c.Meta.VersapayOrderID != "" {
		notes = append(notes, "Versapay Order Id: "+c.Meta.VersapayOrderID)
	}
	return notes
}

// Order is the service's view of a store order: the persisted metadata and
// what completion applied to it.
type Order struct {
	ID            string    `json:"id" bson:"_id"`
	Status        string    `json:"status,omitempty" bson:"status,omitempty"`
	TransactionID string    `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Meta          OrderMeta `json:"meta" bson:"meta"`
	Notes         []string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// OrderContext is what the store platform knows about the order being paid.
type OrderContext struct {
	OrderNumber     string     `json:"orderNumber" validate:"required"`
	CustomerNumber  string     `json:"customerNumber"`
	CustomerID      string     `json:"customerId"`
	CheckoutID      string     `json:"checkoutId"`
	Currency        string     `json:"currency" validate:"required,len=3"`
	Total           Decimal    `json:"total" validate:"required"`
	ShippingTotal   Decimal    `json:"shippingTotal"`
	DiscountTotal   Decimal    `json:"discountTotal"`
	Taxes           []Decimal  `json:"taxes"`
	ShippingMethods []string   `json:"shippingMethods"`
	Billing         Address    `json:"billing"`
	Shipping        Address    `json:"shipping"`
	Lines           []LineItem `json:"lines" validate:"dive"`
}

type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	PostCode  string `json:"postCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type LineItem struct {
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Price       Decimal `json:"price"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}
