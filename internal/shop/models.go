package shop

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id,omitempty"` // kosong = guest checkout
	CustomerName    string      `json:"customer_name"`
	Email           string      `json:"email"`
	ShippingAddress string      `json:"shipping_address"`
	Status          Status      `json:"status"`
	TotalCents      int         `json:"total_cents"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
}

type OrderItem struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name,omitempty"` // resolved dari katalog untuk display
	Qty         int    `json:"qty"`
	PriceCents  int    `json:"price_cents"` // snapshot harga saat order dibuat
}

// CartItem: satu baris permintaan; produk boleh muncul lebih dari sekali,
// tiap baris di-reserve sendiri sesuai urutan submit.
type CartItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type Cart struct {
	UserID          string
	CustomerName    string
	Email           string
	ShippingAddress string
	Items           []CartItem
}
