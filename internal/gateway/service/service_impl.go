package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	checkoutdomain "github.com/openmerchant/paygate/internal/checkout/domain"
	"github.com/openmerchant/paygate/internal/gateway/domain"
	"github.com/openmerchant/paygate/internal/gateway/vault"
	"github.com/openmerchant/paygate/internal/metrics"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/internal/render"
	settingsdomain "github.com/openmerchant/paygate/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const checkoutNote = "Checkout with custom payment."

type Params struct {
	fx.In

	Log      *zap.Logger
	Settings settingsdomain.Service
	Orders   orderdomain.Service
	Carts    cartdomain.Service
	Vault    *vault.Vault
	Metrics  *metrics.Metrics `optional:"true"`
}

// Gateway is the card-on-file payment method. It implements
// checkout/domain.PaymentGateway.
type Gateway struct {
	log      *zap.Logger
	settings settingsdomain.Service
	orders   orderdomain.Service
	carts    cartdomain.Service
	vault    *vault.Vault
	metrics  *metrics.Metrics
}

func New(p Params) *Gateway {
	return &Gateway{
		log:      p.Log.Named("gateway.custom"),
		settings: p.Settings,
		orders:   p.Orders,
		carts:    p.Carts,
		vault:    p.Vault,
		metrics:  p.Metrics,
	}
}

func (g *Gateway) ID() string { return domain.GatewayID }

// config reads the stored configuration fresh on every call. Admin
// changes take effect on the next request without a restart.
// Instructions that were never saved fall back to the description.
func (g *Gateway) config(ctx context.Context) domain.Config {
	description := g.settings.Get(ctx, domain.SettingDescription, domain.DefaultDescription)
	return domain.Config{
		Enabled:      g.settings.Get(ctx, domain.SettingEnabled, domain.DefaultEnabled) == "yes",
		Title:        g.settings.Get(ctx, domain.SettingTitle, domain.DefaultTitle),
		Description:  description,
		Instructions: g.settings.Get(ctx, domain.SettingInstructions, description),
		OrderStatus:  g.settings.Get(ctx, domain.SettingOrderStatus, domain.DefaultOrderStatus),
	}
}

func (g *Gateway) Enabled(ctx context.Context) bool {
	return g.config(ctx).Enabled
}

func (g *Gateway) Title(ctx context.Context) string {
	return g.config(ctx).Title
}

func (g *Gateway) Description(ctx context.Context) string {
	return g.config(ctx).Description
}

// ValidateFields checks the card fields when this gateway is the
// selected payment method. Other methods pass through untouched.
func (g *Gateway) ValidateFields(ctx context.Context, sub checkoutdomain.Submission) []checkoutdomain.Notice {
	if sub.PaymentMethod() != domain.GatewayID {
		return nil
	}

	var notices []checkoutdomain.Notice
	if sub.Field(checkoutdomain.FieldCardNumber) == "" {
		notices = append(notices, checkoutdomain.Notice{
			Field:   checkoutdomain.FieldCardNumber,
			Message: "Please add your card number",
		})
	}
	if sub.Field(checkoutdomain.FieldExpiry) == "" {
		notices = append(notices, checkoutdomain.Notice{
			Field:   checkoutdomain.FieldExpiry,
			Message: "Please add your Expiry Date",
		})
	}
	if sub.Field(checkoutdomain.FieldCVV) == "" {
		notices = append(notices, checkoutdomain.Notice{
			Field:   checkoutdomain.FieldCVV,
			Message: "Please add your CVV",
		})
	}

	for _, notice := range notices {
		g.metrics.RecordValidationFailure(notice.Field)
	}
	return notices
}

// CaptureFields seals the submitted card fields and stores them on the
// order. Re-capturing the same order overwrites the previous values.
func (g *Gateway) CaptureFields(ctx context.Context, orderID snowflake.ID, sub checkoutdomain.Submission) error {
	if sub.PaymentMethod() != domain.GatewayID {
		return nil
	}

	fields := []string{
		checkoutdomain.FieldCardNumber,
		checkoutdomain.FieldExpiry,
		checkoutdomain.FieldCVV,
	}
	for _, field := range fields {
		sealed, err := g.vault.Seal(sub.Field(field))
		if err != nil {
			return fmt.Errorf("seal %s: %w", field, err)
		}
		if err := g.orders.SetMeta(ctx, orderID, field, sealed); err != nil {
			return err
		}
		g.metrics.RecordCapture()
	}
	return nil
}

// ProcessPayment settles the order: transition to the configured
// status, reduce stock, empty the cart, and hand back the redirect.
func (g *Gateway) ProcessPayment(ctx context.Context, orderID snowflake.ID, sub checkoutdomain.Submission, cartToken string) (checkoutdomain.PaymentResult, error) {
	cfg := g.config(ctx)
	target := orderdomain.NormalizeStatus(cfg.OrderStatus)

	if err := g.orders.UpdateStatus(ctx, orderID, target, checkoutNote); err != nil {
		g.metrics.RecordPayment(domain.GatewayID, "failed")
		return checkoutdomain.PaymentResult{}, err
	}

	if err := g.orders.ReduceStock(ctx, orderID); err != nil {
		g.log.Error("stock reduction failed",
			zap.String("order_id", orderID.String()),
			zap.Error(err),
		)
		g.metrics.RecordPayment(domain.GatewayID, "failed")
		return checkoutdomain.PaymentResult{}, err
	}

	if err := g.carts.Empty(ctx, cartToken); err != nil {
		g.log.Warn("cart empty failed",
			zap.String("cart_token", cartToken),
			zap.Error(err),
		)
	}

	order, err := g.orders.Get(ctx, orderID)
	if err != nil {
		return checkoutdomain.PaymentResult{}, err
	}

	g.metrics.RecordPayment(domain.GatewayID, target)
	return checkoutdomain.PaymentResult{
		Result:   checkoutdomain.ResultSuccess,
		Redirect: fmt.Sprintf("/api/orders/%s/received", order.OrderKey),
	}, nil
}

func (g *Gateway) ThankYouText(ctx context.Context, orderID snowflake.ID) ([]string, error) {
	cfg := g.config(ctx)
	return render.Instructions(cfg.Instructions), nil
}

// EmailInstructions adds the configured instructions to customer
// emails for on-hold orders paid with this gateway. Admin copies never
// include them.
func (g *Gateway) EmailInstructions(ctx context.Context, order orderdomain.Order, sentToAdmin bool) ([]string, error) {
	cfg := g.config(ctx)
	if cfg.Instructions == "" || sentToAdmin {
		return nil, nil
	}
	if order.PaymentMethod != domain.GatewayID || !order.HasStatus(orderdomain.StatusOnHold) {
		return nil, nil
	}
	return render.Instructions(cfg.Instructions), nil
}

// AdminOrderLines projects the captured card data for the admin order
// screen. The card number keeps its last four digits, the CVV stays
// hidden, and the expiry is shown as captured.
func (g *Gateway) AdminOrderLines(ctx context.Context, orderID snowflake.ID) ([]checkoutdomain.DetailLine, error) {
	cfg := g.config(ctx)
	lines := []checkoutdomain.DetailLine{
		{Label: "Payment Method", Value: cfg.Title},
	}

	cardNumber, err := g.openMeta(ctx, orderID, checkoutdomain.FieldCardNumber)
	if err != nil {
		return nil, err
	}
	if cardNumber != "" {
		lines = append(lines, checkoutdomain.DetailLine{
			Label: "Card Number",
			Value: vault.MaskCardNumber(cardNumber),
		})
	}

	expiry, err := g.openMeta(ctx, orderID, checkoutdomain.FieldExpiry)
	if err != nil {
		return nil, err
	}
	if expiry != "" {
		lines = append(lines, checkoutdomain.DetailLine{Label: "Expiry Date", Value: expiry})
	}

	cvv, err := g.openMeta(ctx, orderID, checkoutdomain.FieldCVV)
	if err != nil {
		return nil, err
	}
	if cvv != "" {
		lines = append(lines, checkoutdomain.DetailLine{Label: "CVV", Value: vault.MaskCVV()})
	}
	return lines, nil
}

func (g *Gateway) openMeta(ctx context.Context, orderID snowflake.ID, key string) (string, error) {
	sealed, err := g.orders.GetMeta(ctx, orderID, key)
	if err != nil {
		return "", err
	}
	if sealed == "" {
		return "", nil
	}
	return g.vault.Open(sealed)
}
