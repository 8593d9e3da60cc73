package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/prashant0268/shamyraweb/internal/cart"
	"github.com/prashant0268/shamyraweb/internal/catalog"
	"github.com/prashant0268/shamyraweb/internal/checkout"
	"github.com/prashant0268/shamyraweb/internal/events"
	h "github.com/prashant0268/shamyraweb/internal/http"
	"github.com/prashant0268/shamyraweb/internal/localstore"
	"github.com/prashant0268/shamyraweb/internal/profile"
	"github.com/prashant0268/shamyraweb/internal/repository"
	"github.com/prashant0268/shamyraweb/pkg/logger"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPPort string

	MongoURI    string
	MongoDBName string
	RedisAddr   string
	RedisPass   string

	CatalogDBPath     string
	CatalogMigrations string
	KafkaBrokers      string // empty disables order events
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		AppEnv:            getEnv("APP_ENV", "dev"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "shamyra"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         getEnv("REDIS_PASSWORD", ""),
		CatalogDBPath:     getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrations: getEnv("CATALOG_MIGRATIONS", "internal/catalog/migrations"),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	ctx := context.Background()

	// MongoDB holds account carts, orders and profiles.
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB", "uri", cfg.MongoURI)

	cartStore := repository.NewMongoCartStore(mongoDB)
	orderStore := repository.NewMongoOrderStore(mongoDB)
	profileStore := repository.NewMongoProfileStore(mongoDB)

	// Redis holds the device-local guest carts.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Redis connection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis", "addr", cfg.RedisAddr)

	guestStore := localstore.NewRedisStore(redisClient)

	catalogRepo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrations); err != nil {
		log.Error("failed to migrate catalog", "error", err)
		os.Exit(1)
	}

	var publisher checkout.Publisher
	var publisherClose func() error
	if cfg.KafkaBrokers != "" {
		p := events.NewOrderPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		publisher = p
		publisherClose = p.Close
		log.Info("order events enabled", "brokers", cfg.KafkaBrokers)
	}

	registry := cart.NewRegistry(repository.NewBreakerCartStore(cartStore), guestStore, log)
	defer registry.Close()

	checkoutService := checkout.NewService(orderStore, publisher, log)
	profileService := profile.NewService(profileStore, log)

	router := h.NewRouter(
		h.RouterConfig{RequestTimeout: cfg.RequestTimeout},
		h.NewCartHandler(registry, catalogRepo),
		h.NewProductHandler(catalogRepo),
		h.NewCheckoutHandler(registry, checkoutService),
		h.NewProfileHandler(profileService),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		log.Info("storefront listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	if publisherClose != nil {
		if err := publisherClose(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}
	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Error("failed to disconnect MongoDB", "error", err)
	}

	log.Info("server exited")
}
