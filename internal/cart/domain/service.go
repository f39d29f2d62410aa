package domain

import (
	"context"
	"errors"
)

type AddItemRequest struct {
	Token     string
	ProductID string
	Quantity  int64
}

// Service holds cart contents keyed by an opaque token. Emptying the
// cart after a successful checkout clears items but keeps the token
// valid for the next session.
type Service interface {
	Add(ctx context.Context, req AddItemRequest) (Cart, error)
	Items(ctx context.Context, token string) ([]CartItem, error)
	Empty(ctx context.Context, token string) error
}

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidToken    = errors.New("invalid_token")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidQuantity = errors.New("invalid_quantity")
)
