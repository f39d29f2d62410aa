package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
)

// PaymentGateway is the contract a payment method implements to take
// part in checkout. The checkout service drives each phase through
// these callbacks with the submission passed in explicitly.
type PaymentGateway interface {
	ID() string

	// Enabled reflects the gateway's stored configuration at call time.
	Enabled(ctx context.Context) bool

	Title(ctx context.Context) string
	Description(ctx context.Context) string

	// ValidateFields inspects the submission and returns customer-facing
	// notices. An empty slice means the submission is acceptable.
	ValidateFields(ctx context.Context, sub Submission) []Notice

	// CaptureFields persists gateway-owned fields from the submission
	// onto the order before payment runs.
	CaptureFields(ctx context.Context, orderID snowflake.ID, sub Submission) error

	// ProcessPayment settles the order and reports where to send the
	// customer next.
	ProcessPayment(ctx context.Context, orderID snowflake.ID, sub Submission, cartToken string) (PaymentResult, error)

	// ThankYouText returns the paragraphs shown on the order-received
	// page, already formatted for display.
	ThankYouText(ctx context.Context, orderID snowflake.ID) ([]string, error)

	// EmailInstructions returns the paragraphs appended to a customer
	// status email, or nil when the gateway has nothing to add.
	EmailInstructions(ctx context.Context, order orderdomain.Order, sentToAdmin bool) ([]string, error)

	// AdminOrderLines projects the gateway's stored order data for the
	// admin order screen. Sensitive values come back redacted.
	AdminOrderLines(ctx context.Context, orderID snowflake.ID) ([]DetailLine, error)
}

var (
	ErrGatewayNotFound = errors.New("gateway_not_found")
	ErrGatewayDisabled = errors.New("gateway_disabled")
	ErrDuplicateID     = errors.New("duplicate_gateway_id")
)
