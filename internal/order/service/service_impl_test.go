package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	orderdomain "github.com/openmerchant/paygate/internal/order/domain"
	orderrepo "github.com/openmerchant/paygate/internal/order/repository"
	orderservice "github.com/openmerchant/paygate/internal/order/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	}
	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newService(t *testing.T, db *gorm.DB, notifier orderdomain.StatusNotifier) orderdomain.Service {
	t.Helper()

	node, err := snowflake.NewNode(7)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	return orderservice.New(orderservice.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Repo:     orderrepo.Provide(),
		Notifier: notifier,
	})
}

func insertProduct(t *testing.T, db *gorm.DB, id snowflake.ID, sku string, unitAmount, stock int64) {
	t.Helper()

	err := db.Exec(
		`INSERT INTO products (id, sku, name, unit_amount, stock_quantity, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, sku, "Product "+sku, unitAmount, stock, time.Now().UTC(),
	).Error
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
}

func assertCount(t *testing.T, db *gorm.DB, query string, args []any, want int64) {
	t.Helper()

	var got int64
	if err := db.Raw(query, args...).Scan(&got).Error; err != nil {
		t.Fatalf("count query: %v", err)
	}
	if got != want {
		t.Fatalf("count = %d, want %d (query %s)", got, want, query)
	}
}

func TestCreateOrderComputesTotals(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	insertProduct(t, db, 1002, "MUG", 900, 10)

	order, err := svc.Create(ctx, orderdomain.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		PaymentMethod: "custom",
		Currency:      "usd",
		Items: []orderdomain.CreateOrderItem{
			{ProductID: "1001", Quantity: 2},
			{ProductID: "1002", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if order.TotalAmount != 2*1900+900 {
		t.Fatalf("total = %d, want %d", order.TotalAmount, 2*1900+900)
	}
	if order.Status != orderdomain.StatusPending {
		t.Fatalf("status = %q, want pending", order.Status)
	}
	if order.OrderKey == "" {
		t.Fatalf("expected generated order key")
	}
	if order.Currency != "USD" {
		t.Fatalf("currency = %q, want USD", order.Currency)
	}

	items, err := svc.Items(ctx, order.ID)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	_, err := svc.Create(ctx, orderdomain.CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		PaymentMethod: "custom",
		Items:         []orderdomain.CreateOrderItem{{ProductID: "9999", Quantity: 1}},
	})
	if err != orderdomain.ErrInvalidItems {
		t.Fatalf("err = %v, want ErrInvalidItems", err)
	}
}

func TestUpdateStatusValidatesVocabulary(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	order := mustCreateOrder(t, svc)

	if err := svc.UpdateStatus(ctx, order.ID, "shipped", ""); err != orderdomain.ErrInvalidStatus {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateStatusNormalizesPrefixAndRecordsNote(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	order := mustCreateOrder(t, svc)

	if err := svc.UpdateStatus(ctx, order.ID, "wc-completed", "Checkout with custom payment."); err != nil {
		t.Fatalf("update status: %v", err)
	}

	got, err := svc.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != orderdomain.StatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}

	var note string
	if err := db.Raw(`SELECT note FROM order_notes WHERE order_id = ?`, order.ID).Scan(&note).Error; err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.Contains(note, "Checkout with custom payment.") {
		t.Fatalf("note = %q, want checkout note text", note)
	}
	if !strings.Contains(note, "Order status changed from pending to completed.") {
		t.Fatalf("note = %q, want transition text", note)
	}
}

type capturingNotifier struct {
	orders []orderdomain.Order
	notes  []string
}

func (n *capturingNotifier) NotifyStatusChange(ctx context.Context, order orderdomain.Order, note string) error {
	n.orders = append(n.orders, order)
	n.notes = append(n.notes, note)
	return nil
}

func TestUpdateStatusNotifies(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	notifier := &capturingNotifier{}
	svc := newService(t, db, notifier)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	order := mustCreateOrder(t, svc)

	if err := svc.UpdateStatus(ctx, order.ID, "on-hold", ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if len(notifier.orders) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.orders))
	}
	if notifier.orders[0].Status != orderdomain.StatusOnHold {
		t.Fatalf("notified status = %q, want on-hold", notifier.orders[0].Status)
	}
}

func TestReduceStockIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	order := mustCreateOrder(t, svc)

	if err := svc.ReduceStock(ctx, order.ID); err != nil {
		t.Fatalf("reduce stock: %v", err)
	}
	if err := svc.ReduceStock(ctx, order.ID); err != nil {
		t.Fatalf("reduce stock again: %v", err)
	}

	var stock int64
	if err := db.Raw(`SELECT stock_quantity FROM products WHERE id = 1001`).Scan(&stock).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 8 {
		t.Fatalf("stock = %d, want 8", stock)
	}
}

func TestReduceStockFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 1)
	order := mustCreateOrder(t, svc)

	if err := svc.ReduceStock(ctx, order.ID); err != nil {
		t.Fatalf("reduce stock: %v", err)
	}

	var stock int64
	if err := db.Raw(`SELECT stock_quantity FROM products WHERE id = 1001`).Scan(&stock).Error; err != nil {
		t.Fatalf("read stock: %v", err)
	}
	if stock != 0 {
		t.Fatalf("stock = %d, want 0", stock)
	}
}

func TestMetaUpsertIsLastWriteWins(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newService(t, db, nil)

	insertProduct(t, db, 1001, "TEE", 1900, 10)
	order := mustCreateOrder(t, svc)

	if err := svc.SetMeta(ctx, order.ID, "card_number", "first"); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	if err := svc.SetMeta(ctx, order.ID, "card_number", "second"); err != nil {
		t.Fatalf("set meta again: %v", err)
	}

	value, err := svc.GetMeta(ctx, order.ID, "card_number")
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if value != "second" {
		t.Fatalf("meta = %q, want second", value)
	}

	assertCount(t, db,
		`SELECT COUNT(1) FROM order_meta WHERE order_id = ? AND meta_key = ?`,
		[]any{order.ID, "card_number"},
		1,
	)
}

func mustCreateOrder(t *testing.T, svc orderdomain.Service) orderdomain.Order {
	t.Helper()

	order, err := svc.Create(context.Background(), orderdomain.CreateOrderRequest{
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		PaymentMethod: "custom",
		Items:         []orderdomain.CreateOrderItem{{ProductID: "1001", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
