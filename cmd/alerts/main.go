package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/config"
	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/ariefcatur/go-shop/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop/internal/kafka"
	"github.com/ariefcatur/go-shop/internal/logx"
	"github.com/ariefcatur/go-shop/internal/notify"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/redisx"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logx.Setup(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName+"-alerts")

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

	// Notifier: SNS kalau topic diset, selain itu cukup log
	var notifier inventory.Notifier = notify.LogNotifier{}
	if cfg.AlertSNSTopicARN != "" {
		sn, err := notify.NewSNSNotifier(ctx, cfg.AlertSNSTopicARN)
		if err != nil {
			log.Fatal().Err(err).Msg("sns notifier")
		}
		notifier = sn
	}

	sessions := session.NewService(&session.PGStore{DB: db}, cfg.SessionTTL)
	products := catalog.NewService(&catalog.PGRepo{DB: db}, sessions)
	alertRepo := &inventory.PGRepo{DB: db}

	worker := &inventory.Worker{
		Alerts:   inventory.NewService(alertRepo, products, sessions),
		Repo:     alertRepo,
		Dedup:    &redisx.Deduper{RDB: rdb, Service: cfg.AlertsGroup},
		Notifier: notifier,
	}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AlertsGroup, events.TopicStock, cfg.AlertsWorkers)

	go func() {
		log.Info().Str("group", cfg.AlertsGroup).Str("topic", events.TopicStock).
			Int("workers", cfg.AlertsWorkers).Msg("inventory alert consumer started")
		if err := cons.Start(ctx, worker.HandleStockChanged); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
