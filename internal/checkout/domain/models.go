package domain

import "strings"

// Submission is the raw checkout form payload. Handlers pass it to the
// checkout service explicitly; nothing downstream reads request state.
type Submission map[string]string

// Checkout form field names.
const (
	FieldPaymentMethod = "payment_method"
	FieldCardNumber    = "card_number"
	FieldExpiry        = "expdate"
	FieldCVV           = "cvv"
)

func (s Submission) Field(name string) string {
	return strings.TrimSpace(s[name])
}

func (s Submission) PaymentMethod() string {
	return s.Field(FieldPaymentMethod)
}

// Notice is a customer-facing validation message tied to a form field.
type Notice struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PaymentResult is the payload the storefront acts on after capture.
type PaymentResult struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}

const ResultSuccess = "success"

// DetailLine is a labeled value rendered on the admin order screen.
type DetailLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
