package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/auth"
	"github.com/ariefcatur/go-shop-backend.git/internal/intake"
	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// OrderAdmin: operasi baca/ubah order yang dipakai handler admin.
// Dipenuhi *shop.OrderRepo.
type OrderAdmin interface {
	Get(ctx context.Context, orderID string) (shop.Order, error)
	List(ctx context.Context) ([]shop.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status shop.Status) (shop.Order, error)
	Delete(ctx context.Context, orderID string) error
}

type OrdersHandler struct {
	Intake         *intake.Service
	Repo           OrderAdmin
	ProducerStatus intake.Publisher // event status_changed; boleh nil
	Redis          *redis.Client    // idempotency + cache status; boleh nil
	Auth           *auth.Verifier
	Service        string
}

type CreateOrderReq struct {
	RequestID       string          `json:"request_id,omitempty"` // optional, untuk retry idempotent
	CustomerName    string          `json:"customer_name"`
	Email           string          `json:"email"`
	ShippingAddress string          `json:"shipping_address"`
	Items           []shop.CartItem `json:"items"`
}

type CreateOrderResp struct {
	OrderID    string `json:"order_id"`
	TotalCents int    `json:"total_cents"`
	Idempotent bool   `json:"idempotent,omitempty"`
}

type UpdateStatusReq struct {
	Status shop.Status `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.Optional) // guest checkout boleh, identitas optional
		r.Post("/api/orders", h.createOrder)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Get("/api/orders", h.listOrders)
		r.Put("/api/orders/{id}", h.updateStatus)
		r.Delete("/api/orders/{id}", h.deleteOrder)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.CustomerName == "" || req.Email == "" || req.ShippingAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path idempotency via Redis; cart & stok tidak disentuh kalau
	// request_id sudah pernah sukses.
	var idemKey string
	if req.RequestID != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrderCreate, req.RequestID)
		if prevID, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && prevID != "" {
			if o, err := h.Repo.Get(ctx, prevID); err == nil {
				writeJSON(w, http.StatusOK, CreateOrderResp{OrderID: o.ID, TotalCents: o.TotalCents, Idempotent: true})
				return
			}
		}
	}

	cart := shop.Cart{
		CustomerName:    req.CustomerName,
		Email:           req.Email,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		cart.UserID = id.UserID
	}

	o, err := h.Intake.PlaceOrder(ctx, cart)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	}
	h.cacheStatus(ctx, o.ID, o.Status)

	writeJSON(w, http.StatusCreated, CreateOrderResp{OrderID: o.ID, TotalCents: o.TotalCents})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Repo.List(ctx)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if orders == nil {
		orders = []shop.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if !req.Status.SettableViaUpdate() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status: " + string(req.Status)})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.UpdateStatus(ctx, orderID, req.Status)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	h.cacheStatus(ctx, o.ID, o.Status)
	h.publishStatus(o.ID, o.Status)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Delete(ctx, orderID); err != nil {
		writeDomainErr(w, err)
		return
	}

	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()
	}
	h.publishStatus(orderID, shop.StatusDeleted)
	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, status shop.Status) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) publishStatus(orderID string, status shop.Status) {
	if h.ProducerStatus == nil {
		return
	}
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     shop.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(shop.OrderStatusChangedPayload{OrderID: orderID, Status: status}),
	}
	h.ProducerStatus.Publish(shop.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(shop.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
