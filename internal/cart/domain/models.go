package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Cart struct {
	Token     string    `gorm:"primaryKey;type:text" json:"token"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Cart) TableName() string { return "carts" }

type CartItem struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CartToken string       `gorm:"type:text;not null;index" json:"cart_token"`
	ProductID snowflake.ID `gorm:"not null" json:"product_id"`
	Quantity  int64        `gorm:"not null" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }
