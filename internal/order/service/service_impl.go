package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// stockReducedMetaKey guards stock reduction so repeated captures of the
// same order never decrement inventory twice.
const stockReducedMetaKey = "_stock_reduced"

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Notifier domain.StatusNotifier `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	notifier domain.StatusNotifier
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("order.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		notifier: p.Notifier,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderRequest) (domain.Order, error) {
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		return domain.Order{}, domain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return domain.Order{}, domain.ErrInvalidItems
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            s.genID.Generate(),
		OrderKey:      uuid.NewString(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Status:        domain.StatusPending,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return domain.Order{}, domain.ErrInvalidItems
		}

		productID, err := snowflake.ParseString(line.ProductID)
		if err != nil {
			return domain.Order{}, domain.ErrInvalidItems
		}

		product, err := s.repo.FindProduct(ctx, s.db, productID)
		if err != nil {
			return domain.Order{}, err
		}
		if product == nil {
			return domain.Order{}, domain.ErrInvalidItems
		}

		items = append(items, domain.OrderItem{
			ID:         s.genID.Generate(),
			OrderID:    order.ID,
			ProductID:  product.ID,
			Name:       product.Name,
			Quantity:   line.Quantity,
			UnitAmount: product.UnitAmount,
		})
		order.TotalAmount += product.UnitAmount * line.Quantity
	}

	if err := s.repo.Insert(ctx, s.db, &order, items); err != nil {
		s.log.Error("insert order failed", zap.Error(err))
		return domain.Order{}, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_key", order.OrderKey),
		zap.Int64("total_amount", order.TotalAmount),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) GetByKey(ctx context.Context, key string) (*domain.Order, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrInvalidID
	}

	order, err := s.repo.FindByKey(ctx, s.db, key)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) (domain.ListOrderResponse, error) {
	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = 10
	}

	orders, err := s.repo.List(ctx, s.db, domain.ListOrderFilter{
		Status:        domain.NormalizeStatus(req.Status),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListOrderResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(orders, int32(pageSize), func(o *domain.Order) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        o.ID.String(),
			CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339),
		})
		if err != nil {
			s.log.Warn("encode page cursor failed", zap.Error(err))
		}
		return token
	})
	if pageInfo.HasMore {
		orders = orders[:pageSize]
	}

	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, *order)
	}

	return domain.ListOrderResponse{
		PageInfo: *pageInfo,
		Orders:   out,
	}, nil
}

func (s *Service) Items(ctx context.Context, id snowflake.ID) ([]domain.OrderItem, error) {
	return s.repo.ListItems(ctx, s.db, id)
}

func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status, note string) error {
	status = domain.NormalizeStatus(status)
	if !domain.ValidStatus(status) {
		return domain.ErrInvalidStatus
	}

	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, s.db, id, status, now); err != nil {
		return err
	}

	text := fmt.Sprintf("Order status changed from %s to %s.", order.Status, status)
	if note != "" {
		text = strings.TrimSpace(note) + " " + text
	}
	if err := s.repo.InsertNote(ctx, s.db, &domain.OrderNote{
		ID:        s.genID.Generate(),
		OrderID:   id,
		Note:      text,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	s.log.Info("order status updated",
		zap.String("order_id", id.String()),
		zap.String("from", order.Status),
		zap.String("to", status),
	)

	if s.notifier != nil {
		order.Status = status
		order.UpdatedAt = now
		if err := s.notifier.NotifyStatusChange(ctx, *order, text); err != nil {
			s.log.Warn("status notification failed",
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) ReduceStock(ctx context.Context, id snowflake.ID) error {
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}

	reduced, found, err := s.repo.GetMeta(ctx, s.db, id, stockReducedMetaKey)
	if err != nil {
		return err
	}
	if found && reduced == "yes" {
		return nil
	}

	items, err := s.repo.ListItems(ctx, s.db, id)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := s.repo.ReduceProductStock(ctx, s.db, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	return s.repo.UpsertMeta(ctx, s.db, id, stockReducedMetaKey, "yes", time.Now().UTC())
}

func (s *Service) GetMeta(ctx context.Context, id snowflake.ID, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ErrInvalidMetaKey
	}

	value, _, err := s.repo.GetMeta(ctx, s.db, id, key)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Service) SetMeta(ctx context.Context, id snowflake.ID, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrInvalidMetaKey
	}

	return s.repo.UpsertMeta(ctx, s.db, id, key, value, time.Now().UTC())
}
