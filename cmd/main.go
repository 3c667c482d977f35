package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/senyabanana/shipquote-service/internal/db"
	"github.com/senyabanana/shipquote-service/internal/handlers"
	"github.com/senyabanana/shipquote-service/internal/logger"
	"github.com/senyabanana/shipquote-service/internal/pricing"
	"github.com/senyabanana/shipquote-service/internal/quotepdf"
	"github.com/senyabanana/shipquote-service/internal/repository"
	"github.com/senyabanana/shipquote-service/internal/router"
	"github.com/senyabanana/shipquote-service/internal/router/config"
	"github.com/senyabanana/shipquote-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	fees, err := cfg.FeeSchedule()
	if err != nil {
		log.Fatal("invalid fee configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runDBMigration(log, cfg.MigrationURL, cfg.PostgresConn)

	dbPool, err := db.InitDb(ctx, cfg)
	if err != nil {
		log.Fatal("error initializing database", zap.Error(err))
	}
	defer dbPool.Close()

	catalogRepo := repository.NewPostgresCatalogRepository(dbPool)
	routeRepo := repository.NewPostgresRouteRepository(dbPool)
	quoteRepo := repository.NewPostgresQuoteRepository(dbPool)

	var numberer repository.QuoteNumberer = repository.NewPostgresQuoteNumberer(dbPool)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("redis is unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		numberer = repository.NewRedisQuoteNumberer(redisClient)
		log.Info("quote numbers are allocated in redis", zap.String("addr", cfg.RedisAddr))
	}

	resolver := pricing.NewResolver(routeRepo)

	catalogService := services.NewCatalogService(catalogRepo)
	routeService := services.NewRouteService(routeRepo, catalogRepo, resolver)
	quoteService := services.NewQuoteService(quoteRepo, routeRepo, catalogRepo, resolver, numberer, fees)

	timeout := cfg.RequestTimeout
	routes := router.InitRoutes(router.Handlers{
		Ping:    handlers.NewPingHandler(dbPool, log, timeout),
		Catalog: handlers.NewCatalogHandler(catalogService, log, timeout),
		Routes:  handlers.NewRouteHandler(routeService, log, timeout),
		Quotes:  handlers.NewQuoteHandler(quoteService, quotepdf.New(cfg.PDFFontDir), log, timeout),
	}, log)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           routes,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server is listening", zap.String("addr", cfg.ServerAddress))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func runDBMigration(log *zap.Logger, migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", zap.Error(err))
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("failed to run migrate up", zap.Error(err))
	}
	log.Info("db migrated successfully")
}
