package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/openmerchant/paygate/pkg/db/pagination"
)

type CreateOrderItem struct {
	ProductID string
	Quantity  int64
}

type CreateOrderRequest struct {
	CustomerName  string
	CustomerEmail string
	PaymentMethod string
	Currency      string
	Items         []CreateOrderItem
}

type ListOrderRequest struct {
	PageToken     string
	PageSize      int32
	Status        string
	PaymentMethod string
}

type ListOrderResponse struct {
	pagination.PageInfo
	Orders []Order `json:"orders"`
}

type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (Order, error)
	Get(ctx context.Context, id snowflake.ID) (*Order, error)
	GetByKey(ctx context.Context, key string) (*Order, error)
	List(ctx context.Context, req ListOrderRequest) (ListOrderResponse, error)
	Items(ctx context.Context, id snowflake.ID) ([]OrderItem, error)

	// UpdateStatus transitions the order and records an order note.
	UpdateStatus(ctx context.Context, id snowflake.ID, status, note string) error

	// ReduceStock decrements product stock for the order's line items.
	// It is idempotent per order.
	ReduceStock(ctx context.Context, id snowflake.ID) error

	GetMeta(ctx context.Context, id snowflake.ID, key string) (string, error)
	SetMeta(ctx context.Context, id snowflake.ID, key, value string) error
}

// StatusNotifier is invoked after a successful status transition. The
// order store treats notification as best effort.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, order Order, note string) error
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidItems    = errors.New("invalid_items")
	ErrInvalidMetaKey  = errors.New("invalid_meta_key")
)
