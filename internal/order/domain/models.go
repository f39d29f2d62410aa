package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Order struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderKey      string       `gorm:"type:text;not null;uniqueIndex" json:"order_key"`
	CustomerName  string       `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail string       `gorm:"type:text;not null" json:"customer_email"`
	PaymentMethod string       `gorm:"type:text;not null" json:"payment_method"`
	Status        string       `gorm:"type:text;not null" json:"status"`
	TotalAmount   int64        `gorm:"not null" json:"total_amount"`
	Currency      string       `gorm:"type:text;not null" json:"currency"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID    snowflake.ID `gorm:"not null;index" json:"order_id"`
	ProductID  snowflake.ID `gorm:"not null" json:"product_id"`
	Name       string       `gorm:"type:text;not null" json:"name"`
	Quantity   int64        `gorm:"not null" json:"quantity"`
	UnitAmount int64        `gorm:"not null" json:"unit_amount"`
}

func (OrderItem) TableName() string { return "order_items" }

type OrderNote struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID `gorm:"not null;index" json:"order_id"`
	Note      string       `gorm:"type:text;not null" json:"note"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OrderNote) TableName() string { return "order_notes" }

type Product struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	SKU           string            `gorm:"type:text;not null;uniqueIndex" json:"sku"`
	Name          string            `gorm:"type:text;not null" json:"name"`
	UnitAmount    int64             `gorm:"not null" json:"unit_amount"`
	StockQuantity int64             `gorm:"not null" json:"stock_quantity"`
	Attributes    datatypes.JSONMap `gorm:"type:jsonb" json:"attributes,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// Order status vocabulary. Configuration values may carry the
// conventional storage prefix; NormalizeStatus strips it.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusOnHold     = "on-hold"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
	StatusFailed     = "failed"

	StatusPrefix = "wc-"
)

var statuses = map[string]struct{}{
	StatusPending:    {},
	StatusProcessing: {},
	StatusOnHold:     {},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
	StatusFailed:     {},
}

func ValidStatus(status string) bool {
	_, ok := statuses[status]
	return ok
}

// Statuses returns the full status vocabulary, prefixed the way the
// settings form stores its order-status options.
func Statuses() map[string]string {
	out := make(map[string]string, len(statuses))
	for status := range statuses {
		out[StatusPrefix+status] = status
	}
	return out
}

func NormalizeStatus(status string) string {
	status = strings.TrimSpace(status)
	return strings.TrimPrefix(status, StatusPrefix)
}

func (o Order) HasStatus(status string) bool {
	return o.Status == NormalizeStatus(status)
}
