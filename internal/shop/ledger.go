package shop

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StockLedger memegang stok otoritatif per produk. Semua mutasi stok dari
// subsistem order lewat sini; cek-dan-kurangi dilakukan dalam SATU statement
// supaya tidak ada window read-modify-write antar request paralel.
type StockLedger struct{ DB *pgxpool.Pool }

// TryReserve: klaim qty dari stok produk. Atomik per baris produk; stok
// tersimpan tidak pernah negatif walau caller paralel menarget produk sama.
// Produk berbeda tidak saling serialisasi (tidak ada lock global).
func (l *StockLedger) TryReserve(ctx context.Context, productID string, qty int) error {
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	// gagal: bedakan produk tidak ada vs stok kurang
	var available int
	err = l.DB.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
	if errors.Is(err, pgx.ErrNoRows) {
		return &ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	return &OutOfStockError{ProductID: productID, Requested: qty, Available: available}
}

// Release: kompensasi reservasi (rollback intake, cancel, delete order pending).
func (l *StockLedger) Release(ctx context.Context, productID string, qty int) error {
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1`, productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return &ProductNotFoundError{ProductID: productID}
	}
	return nil
}
