package shop

import (
	"errors"
	"fmt"
)

var ErrOrderNotFound = errors.New("order not found")

// OutOfStockError: stok produk tidak cukup untuk qty yang diminta.
type OutOfStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: product %s (requested %d, available %d)", e.ProductID, e.Requested, e.Available)
}

// ProductNotFoundError: produk yang direferensikan cart/katalog tidak ada.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

// ValidationError: cart malformed, ditolak sebelum menyentuh ledger.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid cart: " + e.Reason }
