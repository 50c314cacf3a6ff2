package shop

import (
	"encoding/json"
	"time"
)

const (
	EventOrderPlaced        = "OrderPlaced"
	EventOrderRejected      = "OrderRejected"
	EventOrderStatusChanged = "OrderStatusChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type ItemPrice struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	PriceCents int    `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID    string      `json:"order_id"`
	UserID     string      `json:"user_id,omitempty"`
	Items      []ItemPrice `json:"items"`
	TotalCents int         `json:"total_cents"`
}

type OrderRejectedPayload struct {
	ProductID string `json:"product_id"` // item yang bikin gagal
	Reason    string `json:"reason"`     // OUT_OF_STOCK | PRODUCT_NOT_FOUND
	Requested int    `json:"requested,omitempty"`
	Available int    `json:"available,omitempty"`
}

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	Status  Status `json:"status"`
}
