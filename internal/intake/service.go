// Package intake menjalankan protokol pembuatan order: validasi cart,
// klaim stok berurutan lewat ledger, snapshot harga, persist order.
// Gagal di langkah manapun = semua klaim sebelumnya dilepas (urutan
// terbalik); order parsial tidak pernah ada.
package intake

import (
	"context"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

// Ledger: operasi stok atomik per produk (lihat shop.StockLedger).
type Ledger interface {
	TryReserve(ctx context.Context, productID string, qty int) error
	Release(ctx context.Context, productID string, qty int) error
}

// Catalog: lookup nama + harga untuk snapshot; tidak meng-gate stok.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (shop.Product, error)
}

// OrderStore: persist order aggregate yang sudah lolos reservasi.
type OrderStore interface {
	Insert(ctx context.Context, o *shop.Order) error
}

// Publisher dipenuhi *kafka.Producer; nil = tanpa event (tests).
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Ledger         Ledger
	Catalog        Catalog
	Orders         OrderStore
	ProducerPlaced Publisher
	ProducerReject Publisher
	ServiceName    string
}

// PlaceOrder: satu invocation = maksimal satu attempt reserve per line item,
// dan tepat satu release per klaim kalau ada rollback.
func (s *Service) PlaceOrder(ctx context.Context, cart shop.Cart) (*shop.Order, error) {
	if err := validateCart(cart); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()

	// klaim stok strictly sequential, sesuai urutan submit. Baris duplikat
	// TIDAK di-merge: tiap baris satu reservasi sendiri.
	claimed := make([]shop.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if err := s.Ledger.TryReserve(ctx, it.ProductID, it.Qty); err != nil {
			s.rollback(ctx, claimed)
			s.publishRejected(orderID, err)
			return nil, err
		}
		claimed = append(claimed, it)
	}

	// snapshot harga & nama dari katalog; total dihitung di server, nilai
	// dari client tidak pernah dipakai
	items := make([]shop.OrderItem, 0, len(cart.Items))
	total := 0
	for _, it := range cart.Items {
		p, err := s.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			s.rollback(ctx, claimed)
			return nil, err
		}
		items = append(items, shop.OrderItem{
			ProductID:   it.ProductID,
			ProductName: p.Name,
			Qty:         it.Qty,
			PriceCents:  p.PriceCents,
		})
		total += p.PriceCents * it.Qty
	}

	o := &shop.Order{
		ID:              orderID,
		UserID:          cart.UserID,
		CustomerName:    cart.CustomerName,
		Email:           cart.Email,
		ShippingAddress: cart.ShippingAddress,
		Status:          shop.StatusPending,
		TotalCents:      total,
		Items:           items,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Orders.Insert(ctx, o); err != nil {
		// stok yang sudah diklaim tidak boleh nyangkut tanpa order
		s.rollback(ctx, claimed)
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.publishPlaced(o)
	return o, nil
}

// rollback melepas klaim dalam urutan terbalik. Context caller bisa saja
// sudah cancel (timeout/disconnect); release tetap harus jalan.
func (s *Service) rollback(ctx context.Context, claimed []shop.CartItem) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	for i := len(claimed) - 1; i >= 0; i-- {
		it := claimed[i]
		if err := s.Ledger.Release(rctx, it.ProductID, it.Qty); err != nil {
			log.Error().Err(err).
				Str("product_id", it.ProductID).
				Int("qty", it.Qty).
				Msg("release on rollback failed, stock may be stranded")
		}
	}
}

func validateCart(c shop.Cart) error {
	if len(c.Items) == 0 {
		return &shop.ValidationError{Reason: "cart is empty"}
	}
	for _, it := range c.Items {
		if it.ProductID == "" {
			return &shop.ValidationError{Reason: "missing product_id"}
		}
		if it.Qty <= 0 {
			return &shop.ValidationError{Reason: fmt.Sprintf("qty must be positive for product %s", it.ProductID)}
		}
	}
	return nil
}

func (s *Service) publishPlaced(o *shop.Order) {
	if s.ProducerPlaced == nil {
		return
	}
	items := make([]shop.ItemPrice, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, shop.ItemPrice{ProductID: it.ProductID, Qty: it.Qty, PriceCents: it.PriceCents})
	}
	publish(s.ProducerPlaced, s.ServiceName, shop.EventOrderPlaced, o.ID, shop.OrderPlacedPayload{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Items:      items,
		TotalCents: o.TotalCents,
	})
}

func (s *Service) publishRejected(orderID string, cause error) {
	if s.ProducerReject == nil {
		return
	}
	p := shop.OrderRejectedPayload{Reason: "VALIDATION"}
	switch e := cause.(type) {
	case *shop.OutOfStockError:
		p = shop.OrderRejectedPayload{ProductID: e.ProductID, Reason: "OUT_OF_STOCK", Requested: e.Requested, Available: e.Available}
	case *shop.ProductNotFoundError:
		p = shop.OrderRejectedPayload{ProductID: e.ProductID, Reason: "PRODUCT_NOT_FOUND"}
	}
	publish(s.ProducerReject, s.ServiceName, shop.EventOrderRejected, orderID, p)
}

func publish(pub Publisher, producer, eventType, orderID string, payload any) {
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: orderID,
	}
	ev.Payload = kafkax.MustMarshal(payload)
	pub.Publish(shop.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
