package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	cartdomain "github.com/openmerchant/paygate/internal/cart/domain"
	cartrepo "github.com/openmerchant/paygate/internal/cart/repository"
	cartservice "github.com/openmerchant/paygate/internal/cart/service"
	checkoutdomain "github.com/openmerchant/paygate/internal/checkout/domain"
	"github.com/openmerchant/paygate/internal/checkout/registry"
	checkoutservice "github.com/openmerchant/paygate/internal/checkout/service"
	gatewaydomain "github.com/openmerchant/paygate/internal/gateway/domain"
	gatewayservice "github.com/openmerchant/paygate/internal/gateway/service"
	"github.com/openmerchant/paygate/internal/gateway/vault"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	orderrepo "github.com/openmerchant/paygate/internal/order/repository"
	orderservice "github.com/openmerchant/paygate/internal/order/service"
	settingsdomain "github.com/openmerchant/paygate/internal/settings/domain"
	settingsrepo "github.com/openmerchant/paygate/internal/settings/repository"
	settingsservice "github.com/openmerchant/paygate/internal/settings/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	settings settingsdomain.Service
	orders   orderdomain.Service
	carts    cartdomain.Service
	checkout checkoutdomain.Service
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE orders (
			id BIGINT PRIMARY KEY,
			order_key TEXT NOT NULL UNIQUE,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			total_amount BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE order_items (
			id BIGINT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			quantity BIGINT NOT NULL,
			unit_amount BIGINT NOT NULL
		)`,
		`CREATE TABLE order_notes (
			id BIGINT PRIMARY KEY,
			order_id BIGINT NOT NULL,
			note TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE order_meta (
			order_id BIGINT NOT NULL,
			meta_key TEXT NOT NULL,
			meta_value TEXT NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (order_id, meta_key)
		)`,
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			sku TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			unit_amount BIGINT NOT NULL,
			stock_quantity BIGINT NOT NULL DEFAULT 0,
			attributes TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE carts (
			token TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE cart_items (
			id BIGINT PRIMARY KEY,
			cart_token TEXT NOT NULL,
			product_id BIGINT NOT NULL,
			quantity BIGINT NOT NULL,
			UNIQUE (cart_token, product_id)
		)`,
		`CREATE TABLE settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	settingsSvc := settingsservice.New(settingsservice.Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: settingsrepo.Provide(),
	})
	orderSvc := orderservice.New(orderservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  orderrepo.Provide(),
	})
	cartSvc := cartservice.New(cartservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  cartrepo.Provide(),
	})

	reg := registry.New()
	gw := gatewayservice.New(gatewayservice.Params{
		Log:      zap.NewNop(),
		Settings: settingsSvc,
		Orders:   orderSvc,
		Carts:    cartSvc,
		Vault:    vault.New("test-capture-secret"),
	})
	if err := reg.Register(gw); err != nil {
		t.Fatalf("register gateway: %v", err)
	}

	checkoutSvc := checkoutservice.New(checkoutservice.Params{
		Log:      zap.NewNop(),
		Registry: reg,
		Orders:   orderSvc,
		Carts:    cartSvc,
	})

	return &fixture{
		db:       db,
		settings: settingsSvc,
		orders:   orderSvc,
		carts:    cartSvc,
		checkout: checkoutSvc,
	}
}

func (f *fixture) insertProduct(t *testing.T, id snowflake.ID, unitAmount, stock int64) {
	t.Helper()

	err := f.db.Exec(
		`INSERT INTO products (id, sku, name, unit_amount, stock_quantity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, fmt.Sprintf("SKU-%d", id), "Product", unitAmount, stock, time.Now().UTC(),
	).Error
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
}

func checkoutRequest(items []checkoutdomain.CheckoutItem, cartToken string) checkoutdomain.CheckoutRequest {
	return checkoutdomain.CheckoutRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CartToken:     cartToken,
		Items:         items,
		Submission: checkoutdomain.Submission{
			checkoutdomain.FieldPaymentMethod: gatewaydomain.GatewayID,
			checkoutdomain.FieldCardNumber:    "4111111111111111",
			checkoutdomain.FieldExpiry:        "12/27",
			checkoutdomain.FieldCVV:           "123",
		},
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	resp, notices, err := f.checkout.Checkout(ctx, checkoutRequest(
		[]checkoutdomain.CheckoutItem{{ProductID: "3001", Quantity: 2}},
		"",
	))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(notices) != 0 {
		t.Fatalf("notices = %d, want none", len(notices))
	}
	if resp.Result != checkoutdomain.ResultSuccess {
		t.Fatalf("result = %q, want success", resp.Result)
	}
	wantRedirect := fmt.Sprintf("/api/orders/%s/received", resp.OrderKey)
	if resp.Redirect != wantRedirect {
		t.Fatalf("redirect = %q, want %q", resp.Redirect, wantRedirect)
	}

	order, err := f.orders.GetByKey(ctx, resp.OrderKey)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.PaymentMethod != gatewaydomain.GatewayID {
		t.Fatalf("payment method = %q, want custom", order.PaymentMethod)
	}
	if order.Status != orderdomain.StatusCompleted {
		t.Fatalf("status = %q, want completed", order.Status)
	}
}

func TestCheckoutReturnsValidationNotices(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	req := checkoutRequest([]checkoutdomain.CheckoutItem{{ProductID: "3001", Quantity: 1}}, "")
	delete(req.Submission, checkoutdomain.FieldCardNumber)
	delete(req.Submission, checkoutdomain.FieldCVV)

	_, notices, err := f.checkout.Checkout(ctx, req)
	if !errors.Is(err, checkoutdomain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if len(notices) != 2 {
		t.Fatalf("notices = %d, want 2", len(notices))
	}

	// A rejected submission never creates an order.
	var orders int64
	if err := f.db.Raw(`SELECT COUNT(1) FROM orders`).Scan(&orders).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orders != 0 {
		t.Fatalf("orders = %d, want 0", orders)
	}
}

func TestCheckoutUnknownGateway(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	req := checkoutRequest(nil, "")
	req.Submission[checkoutdomain.FieldPaymentMethod] = "paypal"

	_, _, err := f.checkout.Checkout(ctx, req)
	if !errors.Is(err, checkoutdomain.ErrGatewayNotFound) {
		t.Fatalf("err = %v, want ErrGatewayNotFound", err)
	}
}

func TestCheckoutDisabledGateway(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	if err := f.settings.Put(ctx, gatewaydomain.SettingEnabled, "no"); err != nil {
		t.Fatalf("put setting: %v", err)
	}

	_, _, err := f.checkout.Checkout(ctx, checkoutRequest(nil, ""))
	if !errors.Is(err, checkoutdomain.ErrGatewayDisabled) {
		t.Fatalf("err = %v, want ErrGatewayDisabled", err)
	}
}

func TestCheckoutFromCart(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	cart, err := f.carts.Add(ctx, cartdomain.AddItemRequest{ProductID: "3001", Quantity: 3})
	if err != nil {
		t.Fatalf("cart add: %v", err)
	}

	resp, _, err := f.checkout.Checkout(ctx, checkoutRequest(nil, cart.Token))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order, err := f.orders.GetByKey(ctx, resp.OrderKey)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.TotalAmount != 3*1900 {
		t.Fatalf("total = %d, want %d", order.TotalAmount, 3*1900)
	}

	var cartItems int64
	if err := f.db.Raw(`SELECT COUNT(1) FROM cart_items WHERE cart_token = ?`, cart.Token).Scan(&cartItems).Error; err != nil {
		t.Fatalf("count cart items: %v", err)
	}
	if cartItems != 0 {
		t.Fatalf("cart items = %d, want emptied", cartItems)
	}
}

func TestCheckoutWithoutItemsOrCart(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	_, _, err := f.checkout.Checkout(ctx, checkoutRequest(nil, ""))
	if !errors.Is(err, checkoutdomain.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestValidateWithUnknownMethod(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)

	notices := f.checkout.Validate(ctx, checkoutdomain.Submission{
		checkoutdomain.FieldPaymentMethod: "paypal",
	})
	if len(notices) != 1 || notices[0].Field != checkoutdomain.FieldPaymentMethod {
		t.Fatalf("notices = %+v, want single payment_method notice", notices)
	}
}

func TestThankYouIncludesInstructions(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	if err := f.settings.Put(ctx, gatewaydomain.SettingInstructions, "Pay within 3 days."); err != nil {
		t.Fatalf("put setting: %v", err)
	}

	resp, _, err := f.checkout.Checkout(ctx, checkoutRequest(
		[]checkoutdomain.CheckoutItem{{ProductID: "3001", Quantity: 1}},
		"",
	))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	view, err := f.checkout.ThankYou(ctx, resp.OrderKey)
	if err != nil {
		t.Fatalf("thank you: %v", err)
	}
	if view.OrderKey != resp.OrderKey {
		t.Fatalf("order key = %q, want %q", view.OrderKey, resp.OrderKey)
	}
	if len(view.Paragraphs) != 1 || view.Paragraphs[0] != "Pay within 3 days." {
		t.Fatalf("paragraphs = %+v, want instructions", view.Paragraphs)
	}
}

func TestAdminOrderDataUsesGatewayProjection(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	resp, _, err := f.checkout.Checkout(ctx, checkoutRequest(
		[]checkoutdomain.CheckoutItem{{ProductID: "3001", Quantity: 1}},
		"",
	))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	order, err := f.orders.GetByKey(ctx, resp.OrderKey)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}

	view, err := f.checkout.AdminOrderData(ctx, order.ID)
	if err != nil {
		t.Fatalf("admin order data: %v", err)
	}

	byLabel := map[string]string{}
	for _, line := range view.Lines {
		byLabel[line.Label] = line.Value
	}
	if byLabel["Card Number"] != "•••• •••• •••• 1111" {
		t.Fatalf("card number = %q, want masked", byLabel["Card Number"])
	}
	if byLabel["CVV"] != "•••" {
		t.Fatalf("cvv = %q, want hidden", byLabel["CVV"])
	}
}

func TestAdminOrderDataEmptyForOtherPaymentMethods(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t)
	f.insertProduct(t, 3001, 1900, 10)

	order, err := f.orders.Create(ctx, orderdomain.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		PaymentMethod: "cod",
		Items:         []orderdomain.CreateOrderItem{{ProductID: "3001", Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	view, err := f.checkout.AdminOrderData(ctx, order.ID)
	if err != nil {
		t.Fatalf("admin order data: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("lines = %+v, want none for other payment methods", view.Lines)
	}
	if view.Status != orderdomain.StatusPending {
		t.Fatalf("status = %q, want pending", view.Status)
	}
}
