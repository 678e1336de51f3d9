package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wishlist-backend/config"
	"wishlist-backend/db"
	"wishlist-backend/internal/buyrequest"
	"wishlist-backend/internal/delivery/http/middleware"
	v1 "wishlist-backend/internal/delivery/http/v1"
	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/infrastructure/cache"
	"wishlist-backend/internal/infrastructure/events"
	"wishlist-backend/internal/repository/postgres"
	redisrepo "wishlist-backend/internal/repository/redis"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/logger"
	"wishlist-backend/pkg/storage"
	"wishlist-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	ctx := context.Background()

	// Database
	pgxPool, err := postgres.NewPgxPool(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL")

	migrations, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open migrations")
	}
	if err := postgres.RunMigrations(ctx, pgxPool, migrations); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	prometheus.MustRegister(postgres.NewPoolStatsCollector(pgxPool))

	// Redis (guest carts)
	redisClient, err := redisrepo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Repositories
	wishlistRepo := postgres.NewWishlistRepository(pgxPool)
	cartRepo := postgres.NewCartRepository(pgxPool)
	customerRepo := postgres.NewCustomerRepository(pgxPool)
	txManager := postgres.NewTransactionManager(pgxPool)
	guestCartRepo := redisrepo.NewGuestCartRepository(redisClient, cfg.GuestCartTTL)

	// Product lookups are cached in memory, stock is always read live
	memStore := cache.NewMemoryStore(cfg.CacheProductTTL, 2*cfg.CacheProductTTL)
	catalogRepo := cache.NewCatalogCache(postgres.NewCatalogRepository(pgxPool), memStore, cfg.CacheProductTTL)

	// Custom option file storage
	var files storage.FileStorage
	switch cfg.FileStorage {
	case "r2":
		files, err = storage.NewR2Storage(ctx,
			cfg.R2AccountID,
			cfg.R2AccessKeyID,
			cfg.R2AccessKeySecret,
			cfg.R2BucketName,
			cfg.R2PublicURL,
			cfg.R2UploadTimeout,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize R2 Storage")
		}
	default:
		files = storage.NewLocalStorage(cfg.MediaPath)
	}

	// Share notifications
	var notifier domain.ShareNotifier = events.LogShareNotifier{}
	if len(cfg.KafkaBrokers) > 0 {
		producer := events.NewProducer(cfg.KafkaBrokers)
		defer producer.Close()
		notifier = events.NewShareNotifier(producer)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("Publishing share notifications to Kafka")
	}

	// Wishlist Module
	prices := usecase.DefaultPriceStrategies()
	wishlistUC := usecase.NewWishlistUsecase(
		wishlistRepo,
		cartRepo,
		guestCartRepo,
		catalogRepo,
		customerRepo,
		txManager,
		buyrequest.NewDefaultBuilder(files, cfg.MaxOptionFileSizeMB<<20),
		usecase.NewCartLineAdder(cfg.MaxCartQuantity, prices),
		notifier,
		prices,
		cfg.FrontendURL,
	)
	wishlistHandler := v1.NewWishlistHandler(wishlistUC)
	healthHandler := v1.NewHealthHandler(pgxPool)

	mux := http.NewServeMux()
	wishlistHandler.Register(mux, middleware.AuthMiddleware, middleware.OptionalAuthMiddleware)

	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	rateLimiter := middleware.NewRateLimiter(
		ctx,
		rate.Limit(cfg.RateLimitRPS),
		cfg.RateLimitBurst,
		time.Minute,
		3*time.Minute,
	)

	// Metrics must sit directly on the mux to see the matched route
	handler := middleware.Metrics(mux)
	handler = middleware.NewCORSMiddleware(cfg)(handler)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()
	logger.ServiceStart(version, cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.ServiceStop()
}
