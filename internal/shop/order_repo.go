package shop

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct{ DB *pgxpool.Pool }

// Insert menulis order + line items dalam satu tx. Dipanggil intake SETELAH
// semua stok ter-reserve; repo ini tidak menyentuh kolom stock sama sekali.
func (r *OrderRepo) Insert(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, customer_name, email, shipping_address, status, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, nullIfEmpty(o.UserID), o.CustomerName, o.Email, o.ShippingAddress, string(o.Status), o.TotalCents, o.CreatedAt)
	if err != nil {
		return err
	}

	// position menjaga urutan entry cart (signifikan untuk urutan klaim stok)
	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, product_id, qty, price_cents)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID, i, it.ProductID, it.Qty, it.PriceCents)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *OrderRepo) Get(ctx context.Context, orderID string) (Order, error) {
	var o Order
	var userID *string
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, customer_name, email, shipping_address, status, total_cents, created_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&o.ID, &userID, &o.CustomerName, &o.Email, &o.ShippingAddress, &o.Status, &o.TotalCents, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if userID != nil {
		o.UserID = *userID
	}

	o.Items, err = r.items(ctx, o.ID)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

// List: semua order, nama produk di-resolve dari katalog untuk display.
func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, customer_name, email, shipping_address, status, total_cents, created_at
		FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var userID *string
		if err := rows.Scan(&o.ID, &userID, &o.CustomerName, &o.Email, &o.ShippingAddress, &o.Status, &o.TotalCents, &o.CreatedAt); err != nil {
			return nil, err
		}
		if userID != nil {
			o.UserID = *userID
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.items(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.product_id, COALESCE(p.name, ''), oi.qty, oi.price_cents
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus: overwrite status tanpa tabel transisi; "deleted" ditolak di
// layer atas (hanya lewat Delete).
func (r *OrderRepo) UpdateStatus(ctx context.Context, orderID string, status Status) (Order, error) {
	ct, err := r.DB.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, orderID, string(status))
	if err != nil {
		return Order{}, err
	}
	if ct.RowsAffected() != 1 {
		return Order{}, ErrOrderNotFound
	}
	return r.Get(ctx, orderID)
}

// Delete: hapus order. Kalau status masih memegang stok (pending/processing),
// tiap line item dikembalikan ke products DI TX YANG SAMA dengan penghapusan:
// dua-duanya terjadi atau tidak sama sekali.
func (r *OrderRepo) Delete(ctx context.Context, orderID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}

	if status.HoldsStock() {
		rows, err := tx.Query(ctx, `
			SELECT product_id, qty FROM order_items
			WHERE order_id = $1 ORDER BY position DESC`, orderID)
		if err != nil {
			return err
		}
		type rec struct {
			pid string
			qty int
		}
		var recs []rec
		for rows.Next() {
			var x rec
			if err := rows.Scan(&x.pid, &x.qty); err != nil {
				rows.Close()
				return err
			}
			recs = append(recs, x)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, x := range recs {
			// produk bisa saja sudah dihapus dari katalog; itu bukan alasan gagal
			if _, err := tx.Exec(ctx, `
				UPDATE products SET stock = stock + $2, updated_at = now()
				WHERE id = $1`, x.pid, x.qty); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *OrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
