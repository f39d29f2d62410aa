package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/openmerchant/paygate/internal/cart/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("cart.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// Add puts a product into the cart identified by req.Token. An empty
// token starts a new cart.
func (s *Service) Add(ctx context.Context, req domain.AddItemRequest) (domain.Cart, error) {
	if req.Quantity <= 0 {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return domain.Cart{}, domain.ErrInvalidProduct
	}

	now := time.Now().UTC()
	token := strings.TrimSpace(req.Token)

	var cart *domain.Cart
	if token != "" {
		cart, err = s.repo.FindCart(ctx, s.db, token)
		if err != nil {
			return domain.Cart{}, err
		}
	}
	if cart == nil {
		cart = &domain.Cart{
			Token:     uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.InsertCart(ctx, s.db, cart); err != nil {
			return domain.Cart{}, err
		}
	}

	if err := s.repo.UpsertItem(ctx, s.db, &domain.CartItem{
		ID:        s.genID.Generate(),
		CartToken: cart.Token,
		ProductID: productID,
		Quantity:  req.Quantity,
	}); err != nil {
		return domain.Cart{}, err
	}

	if err := s.repo.TouchCart(ctx, s.db, cart.Token, now); err != nil {
		return domain.Cart{}, err
	}
	cart.UpdatedAt = now
	return *cart, nil
}

func (s *Service) Items(ctx context.Context, token string) ([]domain.CartItem, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	cart, err := s.repo.FindCart(ctx, s.db, token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.ListItems(ctx, s.db, token)
}

// Empty clears the cart after checkout. Clearing an unknown token is a
// no-op so capture never fails on a missing cart.
func (s *Service) Empty(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	if err := s.repo.DeleteItems(ctx, s.db, token); err != nil {
		return err
	}
	s.log.Debug("cart emptied", zap.String("cart_token", token))
	return nil
}
