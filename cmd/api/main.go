package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/auth"
	"github.com/ariefcatur/go-shop-backend.git/internal/config"
	"github.com/ariefcatur/go-shop-backend.git/internal/httpx"
	"github.com/ariefcatur/go-shop-backend.git/internal/intake"
	kafkax "github.com/ariefcatur/go-shop-backend.git/internal/kafka"
	"github.com/ariefcatur/go-shop-backend.git/internal/postgres"
	"github.com/ariefcatur/go-shop-backend.git/internal/redisx"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers per topic
	pPlaced := kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicOrderPlaced, 1024)
	pPlaced.Start(ctx)
	pReject := kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicOrderRejected, 1024)
	pReject.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicOrderStatus, 1024)
	pStatus.Start(ctx)

	// Repos & services
	ledger := &shop.StockLedger{DB: db}
	catalog := &shop.CatalogRepo{DB: db}
	orderRepo := &shop.OrderRepo{DB: db}
	verifier := auth.NewVerifier(cfg.JWTSecret)

	svc := &intake.Service{
		Ledger:         ledger,
		Catalog:        catalog,
		Orders:         orderRepo,
		ProducerPlaced: pPlaced,
		ProducerReject: pReject,
		ServiceName:    cfg.ServiceName,
	}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Intake:         svc,
		Repo:           orderRepo,
		ProducerStatus: pStatus,
		Redis:          rdb,
		Auth:           verifier,
		Service:        cfg.ServiceName,
	}
	oh.Register(router)
	ph := &httpx.ProductsHandler{Catalog: catalog, Orders: orderRepo, Auth: verifier}
	ph.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	// tutup inbox -> flush & close writer, lalu drain
	for _, p := range []*kafkax.Producer{pPlaced, pReject, pStatus} {
		p.Close()
	}
	cancel()
	for _, p := range []*kafkax.Producer{pPlaced, pReject, pStatus} {
		p.WaitClosed()
	}
}
