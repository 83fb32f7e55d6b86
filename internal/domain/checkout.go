package domain

// PaymentMethod identifies how a checkout is paid for.
type PaymentMethod string

const (
	PaymentCredit PaymentMethod = "credit"
	PaymentDebit  PaymentMethod = "debit"
	PaymentPix    PaymentMethod = "pix"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCredit, PaymentDebit, PaymentPix:
		return true
	}
	return false
}

// ShippingInfo is the delivery form submitted at checkout.
type ShippingInfo struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
}

// Quote is the priced breakdown of a set of cart lines. The shipping fee
// applies only when at least one line is included.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

// NewQuote prices the given lines with a flat shipping fee. An empty set
// carries no fee.
func NewQuote(items []LineItem, shippingFee int64) Quote {
	var subtotal int64
	for _, it := range items {
		subtotal += it.Subtotal()
	}
	if len(items) == 0 {
		shippingFee = 0
	}
	return Quote{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		GrandTotal:  subtotal + shippingFee,
	}
}
