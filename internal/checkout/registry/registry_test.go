package registry_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/openmerchant/paygate/internal/checkout/domain"
	"github.com/openmerchant/paygate/internal/checkout/registry"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
)

type stubGateway struct {
	id string
}

func (g *stubGateway) ID() string                                { return g.id }
func (g *stubGateway) Enabled(ctx context.Context) bool          { return true }
func (g *stubGateway) Title(ctx context.Context) string          { return g.id }
func (g *stubGateway) Description(ctx context.Context) string    { return "" }
func (g *stubGateway) ValidateFields(ctx context.Context, sub domain.Submission) []domain.Notice {
	return nil
}
func (g *stubGateway) CaptureFields(ctx context.Context, orderID snowflake.ID, sub domain.Submission) error {
	return nil
}
func (g *stubGateway) ProcessPayment(ctx context.Context, orderID snowflake.ID, sub domain.Submission, cartToken string) (domain.PaymentResult, error) {
	return domain.PaymentResult{}, nil
}
func (g *stubGateway) ThankYouText(ctx context.Context, orderID snowflake.ID) ([]string, error) {
	return nil, nil
}
func (g *stubGateway) EmailInstructions(ctx context.Context, order orderdomain.Order, sentToAdmin bool) ([]string, error) {
	return nil, nil
}
func (g *stubGateway) AdminOrderLines(ctx context.Context, orderID snowflake.ID) ([]domain.DetailLine, error) {
	return nil, nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := registry.New()

	if err := r.Register(&stubGateway{id: "custom"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	gateway, err := r.Resolve("custom")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if gateway.ID() != "custom" {
		t.Fatalf("id = %q, want custom", gateway.ID())
	}

	// Lookup is case and whitespace tolerant.
	if _, err := r.Resolve("  Custom "); err != nil {
		t.Fatalf("resolve normalized: %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := registry.New()

	if err := r.Register(&stubGateway{id: "custom"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&stubGateway{id: "Custom"}); err != domain.ErrDuplicateID {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
}

func TestResolveUnknown(t *testing.T) {
	r := registry.New()

	if _, err := r.Resolve("paypal"); err != domain.ErrGatewayNotFound {
		t.Fatalf("err = %v, want ErrGatewayNotFound", err)
	}
	if err := r.Register(nil); err != domain.ErrGatewayNotFound {
		t.Fatalf("register nil err = %v, want ErrGatewayNotFound", err)
	}
}

func TestAll(t *testing.T) {
	r := registry.New()

	if err := r.Register(&stubGateway{id: "custom"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&stubGateway{id: "cod"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := len(r.All()); got != 2 {
		t.Fatalf("all = %d, want 2", got)
	}
}
