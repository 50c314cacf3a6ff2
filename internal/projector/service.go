// Package projector meng-consume event order dan menjaga cache status di
// Redis supaya GET status murah. Murni read-model; tidak pernah menulis stok.
package projector

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	kafkago "github.com/segmentio/kafka-go"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderEvent dipasang sebagai handler consumer (topic placed & status).
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env shop.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "projector", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	switch env.EventType {
	case shop.EventOrderPlaced:
		p, err := kafkax.UnwrapPayload[shop.OrderPlacedPayload](env.Payload)
		if err != nil {
			return err
		}
		return s.cacheStatus(ctx, p.OrderID, shop.StatusPending)

	case shop.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[shop.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		if p.Status == shop.StatusDeleted {
			key := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
			return s.Redis.Del(ctx, key).Err()
		}
		return s.cacheStatus(ctx, p.OrderID, p.Status)

	default:
		return nil // event lain bukan urusan projector
	}
}

func (s *Service) cacheStatus(ctx context.Context, orderID string, status shop.Status) error {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	body, _ := json.Marshal(map[string]any{"status": status})
	if err := s.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err(); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("status cache write failed")
		return err
	}
	return nil
}
