package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	Currency      string         `json:"currency"`
	CartToken     string         `json:"cart_token"`
	Items         []CheckoutItem `json:"items"`
	Submission    Submission     `json:"submission"`
}

type CheckoutResponse struct {
	OrderID  string `json:"order_id"`
	OrderKey string `json:"order_key"`
	PaymentResult
}

// GatewayInfo is the storefront-facing description of an enabled
// payment method.
type GatewayInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ThankYouView struct {
	OrderKey   string   `json:"order_key"`
	Status     string   `json:"status"`
	Paragraphs []string `json:"paragraphs"`
}

type AdminOrderView struct {
	OrderID string       `json:"order_id"`
	Status  string       `json:"status"`
	Lines   []DetailLine `json:"lines"`
}

// Service orchestrates checkout end to end: field validation, order
// creation, field capture, and payment processing through the gateway
// named by the submission.
type Service interface {
	Gateways(ctx context.Context) []GatewayInfo
	Validate(ctx context.Context, sub Submission) []Notice
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, []Notice, error)
	ThankYou(ctx context.Context, orderKey string) (ThankYouView, error)
	AdminOrderData(ctx context.Context, orderID snowflake.ID) (AdminOrderView, error)
}

var (
	ErrValidation     = errors.New("validation_failed")
	ErrPaymentFailed  = errors.New("payment_failed")
	ErrInvalidRequest = errors.New("invalid_request")
)
