package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	"github.com/openmerchant/paygate/internal/checkout/domain"
	"github.com/openmerchant/paygate/internal/checkout/registry"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Registry *registry.Registry
	Orders   orderdomain.Service
	Carts    cartdomain.Service
}

type Service struct {
	log      *zap.Logger
	registry *registry.Registry
	orders   orderdomain.Service
	carts    cartdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("checkout.service"),
		registry: p.Registry,
		orders:   p.Orders,
		carts:    p.Carts,
	}
}

func (s *Service) Gateways(ctx context.Context) []domain.GatewayInfo {
	gateways := s.registry.All()

	out := make([]domain.GatewayInfo, 0, len(gateways))
	for _, gateway := range gateways {
		if !gateway.Enabled(ctx) {
			continue
		}
		out = append(out, domain.GatewayInfo{
			ID:          gateway.ID(),
			Title:       gateway.Title(ctx),
			Description: gateway.Description(ctx),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate runs the selected gateway's field checks without creating
// an order.
func (s *Service) Validate(ctx context.Context, sub domain.Submission) []domain.Notice {
	gateway, err := s.registry.Resolve(sub.PaymentMethod())
	if err != nil {
		return []domain.Notice{{
			Field:   domain.FieldPaymentMethod,
			Message: "Please choose a valid payment method",
		}}
	}
	return gateway.ValidateFields(ctx, sub)
}

// Checkout runs the full flow: validation, order creation, field
// capture, then payment. Validation notices come back with
// ErrValidation so handlers can render them to the customer.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, []domain.Notice, error) {
	sub := req.Submission
	gateway, err := s.registry.Resolve(sub.PaymentMethod())
	if err != nil {
		return domain.CheckoutResponse{}, nil, domain.ErrGatewayNotFound
	}
	if !gateway.Enabled(ctx) {
		return domain.CheckoutResponse{}, nil, domain.ErrGatewayDisabled
	}

	if notices := gateway.ValidateFields(ctx, sub); len(notices) > 0 {
		return domain.CheckoutResponse{}, notices, domain.ErrValidation
	}

	items, err := s.resolveItems(ctx, req)
	if err != nil {
		return domain.CheckoutResponse{}, nil, err
	}

	order, err := s.orders.Create(ctx, orderdomain.CreateOrderRequest{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		PaymentMethod: gateway.ID(),
		Currency:      req.Currency,
		Items:         items,
	})
	if err != nil {
		return domain.CheckoutResponse{}, nil, err
	}

	if err := gateway.CaptureFields(ctx, order.ID, sub); err != nil {
		s.log.Error("field capture failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return domain.CheckoutResponse{}, nil, err
	}

	result, err := gateway.ProcessPayment(ctx, order.ID, sub, req.CartToken)
	if err != nil {
		return domain.CheckoutResponse{}, nil, domain.ErrPaymentFailed
	}

	s.log.Info("checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_key", order.OrderKey),
		zap.String("gateway", gateway.ID()),
	)
	return domain.CheckoutResponse{
		OrderID:       order.ID.String(),
		OrderKey:      order.OrderKey,
		PaymentResult: result,
	}, nil, nil
}

// resolveItems prefers explicit line items and falls back to the cart
// identified by the request token.
func (s *Service) resolveItems(ctx context.Context, req domain.CheckoutRequest) ([]orderdomain.CreateOrderItem, error) {
	if len(req.Items) > 0 {
		items := make([]orderdomain.CreateOrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, orderdomain.CreateOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		return items, nil
	}

	if req.CartToken == "" {
		return nil, domain.ErrInvalidRequest
	}

	cartItems, err := s.carts.Items(ctx, req.CartToken)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	items := make([]orderdomain.CreateOrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		items = append(items, orderdomain.CreateOrderItem{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
		})
	}
	return items, nil
}

func (s *Service) ThankYou(ctx context.Context, orderKey string) (domain.ThankYouView, error) {
	order, err := s.orders.GetByKey(ctx, orderKey)
	if err != nil {
		return domain.ThankYouView{}, err
	}

	view := domain.ThankYouView{
		OrderKey: order.OrderKey,
		Status:   order.Status,
	}

	gateway, err := s.registry.Resolve(order.PaymentMethod)
	if err != nil {
		return view, nil
	}

	paragraphs, err := gateway.ThankYouText(ctx, order.ID)
	if err != nil {
		return domain.ThankYouView{}, err
	}
	view.Paragraphs = paragraphs
	return view, nil
}

func (s *Service) AdminOrderData(ctx context.Context, orderID snowflake.ID) (domain.AdminOrderView, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.AdminOrderView{}, err
	}

	view := domain.AdminOrderView{
		OrderID: order.ID.String(),
		Status:  order.Status,
	}

	// Orders paid with an unregistered method get no payment detail.
	gateway, err := s.registry.Resolve(order.PaymentMethod)
	if err != nil {
		return view, nil
	}

	lines, err := gateway.AdminOrderLines(ctx, order.ID)
	if err != nil {
		return domain.AdminOrderView{}, err
	}
	view.Lines = lines
	return view, nil
}
