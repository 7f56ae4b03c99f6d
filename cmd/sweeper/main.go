package main

import (
	"context"
	"time"

	"github.com/ariefcatur/go-shop/internal/config"
	"github.com/ariefcatur/go-shop/internal/logx"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// sweeper removes expired sessions once and exits; run it from cron.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logx.Setup(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName+"-sweeper")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	svc := session.NewService(&session.PGStore{DB: db}, cfg.SessionTTL)
	if _, err := svc.SweepExpired(ctx); err != nil {
		log.Fatal().Err(err).Msg("sweep expired sessions")
	}
}
