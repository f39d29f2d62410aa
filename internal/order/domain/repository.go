package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openmerchant/paygate/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListOrderFilter struct {
	Status        string
	PaymentMethod string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order, items []OrderItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	FindByKey(ctx context.Context, db *gorm.DB, key string) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListOrderFilter, page pagination.Pagination) ([]*Order, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status string, now time.Time) error
	InsertNote(ctx context.Context, db *gorm.DB, note *OrderNote) error
	ListItems(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderItem, error)
	FindProduct(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	ReduceProductStock(ctx context.Context, db *gorm.DB, productID snowflake.ID, quantity int64) error
	GetMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key string) (string, bool, error)
	UpsertMeta(ctx context.Context, db *gorm.DB, orderID snowflake.ID, key, value string, now time.Time) error
}
