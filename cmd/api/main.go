package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop/internal/account"
	"github.com/ariefcatur/go-shop/internal/cart"
	"github.com/ariefcatur/go-shop/internal/catalog"
	"github.com/ariefcatur/go-shop/internal/config"
	"github.com/ariefcatur/go-shop/internal/events"
	"github.com/ariefcatur/go-shop/internal/httpx"
	"github.com/ariefcatur/go-shop/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop/internal/kafka"
	"github.com/ariefcatur/go-shop/internal/logx"
	"github.com/ariefcatur/go-shop/internal/orders"
	"github.com/ariefcatur/go-shop/internal/postgres"
	"github.com/ariefcatur/go-shop/internal/redisx"
	"github.com/ariefcatur/go-shop/internal/review"
	"github.com/ariefcatur/go-shop/internal/session"
	"github.com/ariefcatur/go-shop/internal/wishlist"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logx.Setup(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	if cfg.MigrateOnStart {
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()
	tx := &postgres.TxRunner{DB: db}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers: satu per topic
	orderProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrders, 1024)
	orderProd.Start(ctx)
	stockProd := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicStock, 1024)
	stockProd.Start(ctx)

	// Services
	sessions := session.NewService(&session.PGStore{DB: db}, cfg.SessionTTL)
	products := catalog.NewService(&catalog.PGRepo{DB: db}, sessions).
		WithCache(redisx.NewJSONCache[*catalog.Product](rdb, redisx.ProductKey, cfg.ProductCacheTTL)).
		WithStockEvents(stockProd, cfg.ServiceName)
	carts := cart.NewService(&cart.PGRepo{DB: db}, products, sessions, tx)
	products.WithCarts(carts, tx)

	hasher := account.BcryptHasher{}
	customers := account.NewCustomerService(&account.PGCustomers{DB: db}, hasher, sessions, carts, tx)
	sellers := account.NewSellerService(&account.PGSellers{DB: db}, hasher, sessions).
		WithProducts(products, tx)

	orderSvc := orders.NewService(&orders.Repo{DB: db}, carts, products, customers, sessions, tx).
		WithCache(redisx.NewJSONCache[*orders.Order](rdb, redisx.OrderKey, redisx.TTLOrderCache)).
		WithEvents(orderProd, stockProd, cfg.ServiceName)
	wishlists := wishlist.NewService(&wishlist.PGRepo{DB: db}, products, carts, sessions, tx)
	reviews := review.NewService(&review.PGRepo{DB: db}, products, sessions)
	alerts := inventory.NewService(&inventory.PGRepo{DB: db}, products, sessions)

	// Router & handlers
	loginLimiter := httpx.NewIPLimiter(cfg.LoginRate, cfg.LoginBurst)
	router := httpx.NewRouter(
		&httpx.CustomersHandler{Accounts: customers, Limiter: loginLimiter},
		&httpx.SellersHandler{Accounts: sellers, Limiter: loginLimiter},
		&httpx.ProductsHandler{Catalog: products},
		&httpx.CartHandler{Carts: carts},
		&httpx.WishlistHandler{Wishlists: wishlists},
		&httpx.OrdersHandler{Orders: orderSvc},
		&httpx.ReviewsHandler{Reviews: reviews},
		&httpx.AlertsHandler{Alerts: alerts},
	)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	orderProd.Close() // tutup inbox -> flush & close writer
	stockProd.Close()
	cancel()
	orderProd.WaitClosed() // drain
	stockProd.WaitClosed()
}
