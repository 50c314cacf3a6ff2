package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/projector"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &projector.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-projector",
	}

	group := getenv("PROJECTOR_GROUP", "status-projector")
	workers := mustAtoi(os.Getenv("PROJECTOR_WORKERS"), "4")

	// satu consumer per topic, handler sama (switch by event type)
	for _, topic := range []string{shop.TopicOrderPlaced, shop.TopicOrderStatus} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			log.Info().Str("group", group).Str("topic", topic).Int("workers", workers).Msg("projector consumer started")
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Error().Err(err).Str("topic", topic).Msg("consumer exit")
				cancel()
			}
		}(topic)
	}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info().Msg("shutting down consumers...")
	case <-ctx.Done():
	}
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
