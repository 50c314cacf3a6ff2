package shop

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func insertOrder(t *testing.T, pool *pgxpool.Pool, status Status, items []OrderItem) string {
	t.Helper()
	repo := &OrderRepo{DB: pool}
	o := &Order{
		ID:              uuid.NewString(),
		CustomerName:    "Siti",
		Email:           "siti@example.com",
		ShippingAddress: "Jl. Thamrin 10, Jakarta",
		Status:          status,
		Items:           items,
	}
	for _, it := range items {
		o.TotalCents += it.Qty * it.PriceCents
	}
	if err := repo.Insert(context.Background(), o); err != nil {
		t.Fatalf("insert order: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID)
		_, _ = pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, o.ID)
	})
	return o.ID
}

func TestOrderInsertAndGet(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}
	pid := insertProduct(t, pool, "Teh Melati", 700, 10)

	orderID := insertOrder(t, pool, StatusPending, []OrderItem{
		{ProductID: pid, Qty: 2, PriceCents: 700},
		{ProductID: pid, Qty: 1, PriceCents: 700},
	})

	o, err := repo.Get(context.Background(), orderID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if o.TotalCents != 3*700 {
		t.Errorf("expected total 2100, got %d", o.TotalCents)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(o.Items))
	}
	// urutan entry dipertahankan; nama produk di-resolve dari katalog
	if o.Items[0].Qty != 2 || o.Items[1].Qty != 1 {
		t.Errorf("item order not preserved: %+v", o.Items)
	}
	if o.Items[0].ProductName != "Teh Melati" {
		t.Errorf("expected resolved product name, got %q", o.Items[0].ProductName)
	}
	if o.UserID != "" {
		t.Errorf("guest order must have empty user id, got %q", o.UserID)
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}

	_, err := repo.Get(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}
	pid := insertProduct(t, pool, "update-status-prod", 100, 5)
	orderID := insertOrder(t, pool, StatusPending, []OrderItem{{ProductID: pid, Qty: 1, PriceCents: 100}})

	o, err := repo.UpdateStatus(context.Background(), orderID, StatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if o.Status != StatusShipped {
		t.Errorf("expected shipped, got %s", o.Status)
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}

	_, err := repo.UpdateStatus(context.Background(), uuid.NewString(), StatusShipped)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

// Hapus order pending: stok tiap line item balik ke products, record hilang.
func TestDelete_PendingRestocksLedger(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}
	ledger := &StockLedger{DB: pool}

	pid := insertProduct(t, pool, "delete-restock-prod", 100, 10)
	if err := ledger.TryReserve(context.Background(), pid, 3); err != nil {
		t.Fatalf("TryReserve failed: %v", err)
	}
	if got := productStock(t, pool, pid); got != 7 {
		t.Fatalf("expected stock 7 after reserve, got %d", got)
	}

	orderID := insertOrder(t, pool, StatusPending, []OrderItem{{ProductID: pid, Qty: 3, PriceCents: 100}})

	if err := repo.Delete(context.Background(), orderID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := productStock(t, pool, pid); got != 10 {
		t.Errorf("expected stock restored to 10, got %d", got)
	}
	if _, err := repo.Get(context.Background(), orderID); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected order gone, got: %v", err)
	}
}

// Order shipped: stok sudah terpakai, delete tidak boleh menyentuh ledger.
func TestDelete_ShippedDoesNotRestock(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}

	pid := insertProduct(t, pool, "delete-shipped-prod", 100, 7)
	orderID := insertOrder(t, pool, StatusShipped, []OrderItem{{ProductID: pid, Qty: 3, PriceCents: 100}})

	if err := repo.Delete(context.Background(), orderID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := productStock(t, pool, pid); got != 7 {
		t.Errorf("stock must be unchanged, got %d", got)
	}
}

func TestDelete_NotFound(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}

	err := repo.Delete(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestOrderList_ResolvesNames(t *testing.T) {
	pool := getPool(t)
	repo := &OrderRepo{DB: pool}

	pid := insertProduct(t, pool, "list-prod", 100, 5)
	orderID := insertOrder(t, pool, StatusPending, []OrderItem{{ProductID: pid, Qty: 1, PriceCents: 100}})

	orders, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	found := false
	for _, o := range orders {
		if o.ID == orderID {
			found = true
			if len(o.Items) != 1 || o.Items[0].ProductName != "list-prod" {
				t.Errorf("expected resolved item name, got %+v", o.Items)
			}
		}
	}
	if !found {
		t.Error("inserted order not returned by List")
	}
}
