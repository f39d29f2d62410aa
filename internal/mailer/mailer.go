// Package mailer turns order status changes into customer and admin
// emails. It implements the order store's StatusNotifier callback.
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/openmerchant/paygate/internal/checkout/registry"
	"github.com/openmerchant/paygate/internal/config"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	"github.com/openmerchant/paygate/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg      config.Config
	Log      *zap.Logger
	Provider email.Provider
	Registry *registry.Registry
}

type Mailer struct {
	log        *zap.Logger
	provider   email.Provider
	registry   *registry.Registry
	adminEmail string
}

func New(p Params) *Mailer {
	return &Mailer{
		log:        p.Log.Named("mailer"),
		provider:   p.Provider,
		registry:   p.Registry,
		adminEmail: strings.TrimSpace(p.Cfg.AdminEmail),
	}
}

// NotifyStatusChange emails the customer about the transition and
// sends the admin a copy. The admin copy never carries gateway
// payment instructions.
func (m *Mailer) NotifyStatusChange(ctx context.Context, order orderdomain.Order, note string) error {
	subject := fmt.Sprintf("Your order is now %s", order.Status)

	body, err := m.compose(ctx, order, note, false)
	if err != nil {
		return err
	}
	if err := m.provider.Send(ctx, []string{order.CustomerEmail}, subject, body); err != nil {
		return err
	}

	if m.adminEmail != "" {
		adminBody, err := m.compose(ctx, order, note, true)
		if err != nil {
			return err
		}
		adminSubject := fmt.Sprintf("Order %s is now %s", order.OrderKey, order.Status)
		if err := m.provider.Send(ctx, []string{m.adminEmail}, adminSubject, adminBody); err != nil {
			m.log.Warn("admin copy failed",
				zap.String("order_key", order.OrderKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (m *Mailer) compose(ctx context.Context, order orderdomain.Order, note string, sentToAdmin bool) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>\n", html.EscapeString(order.CustomerName))
	fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(note))

	gateway, err := m.registry.Resolve(order.PaymentMethod)
	if err == nil {
		paragraphs, err := gateway.EmailInstructions(ctx, order, sentToAdmin)
		if err != nil {
			return "", err
		}
		for _, paragraph := range paragraphs {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(paragraph))
		}
	}

	fmt.Fprintf(&b, "<p>Order reference: %s</p>\n", html.EscapeString(order.OrderKey))
	return b.String(), nil
}
