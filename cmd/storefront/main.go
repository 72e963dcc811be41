package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hoanghieund/sale-project-sub002/internal/cache"
	"github.com/hoanghieund/sale-project-sub002/internal/catalog"
	h "github.com/hoanghieund/sale-project-sub002/internal/http"
	"github.com/hoanghieund/sale-project-sub002/internal/poller"
	"github.com/hoanghieund/sale-project-sub002/internal/preferences"
	"github.com/hoanghieund/sale-project-sub002/internal/pricing"
	"github.com/hoanghieund/sale-project-sub002/internal/repository"
	"github.com/hoanghieund/sale-project-sub002/internal/service"
	"github.com/hoanghieund/sale-project-sub002/pkg/circuitbreaker"
	"github.com/hoanghieund/sale-project-sub002/pkg/logger"
	"github.com/hoanghieund/sale-project-sub002/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const serviceName = "storefront"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(serviceName, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("storefront stopped with error", zap.Error(err))
	}
}

func run(cfg *Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog
	products, err := catalog.NewRepository(cfg.DBPath)
	if err != nil {
		return err
	}
	defer products.Close()
	if err := products.RunMigrations(cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("catalog migrations completed", zap.String("db_path", cfg.DBPath))

	// Carts
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := mongoDB.Client().Disconnect(disconnectCtx); err != nil {
			log.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()
	repo := repository.NewMongoRepository(mongoDB)
	if err := repo.CreateIndexes(ctx); err != nil {
		return err
	}
	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDBName))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	log.Info("redis ping succeeded", zap.String("addr", cfg.RedisAddr))

	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient), circuitbreaker.DefaultConfig(), log)
	carts := service.NewCartService(repo, cartCache, products, pricing.NewCalculator(cfg.ShippingFee), log)

	// Checkout events
	checkoutPoller := poller.NewPoller(carts, log, cfg.KafkaBrokers...)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		checkoutPoller.Run(ctx)
	}()

	// gRPC health for orchestrators
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}
	go func() {
		log.Info("grpc health listening", zap.String("port", cfg.GRPCPort))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc server error", zap.Error(err))
		}
	}()

	// HTTP
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := h.NewRouter(h.RouterConfig{
		Carts:          carts,
		Catalog:        products,
		Preferences:    preferences.NewRedisStore(redisClient, log),
		Log:            log,
		Metrics:        metrics.NewServerMetrics(reg, "http"),
		Gatherer:       reg,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, serviceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("storefront starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Error("http server error", zap.Error(err))
		stop()
	}

	log.Info("shutting down storefront...")
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	pollerDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(pollerDone)
	}()
	select {
	case <-pollerDone:
	case <-shutdownCtx.Done():
		log.Warn("poller did not stop before shutdown timeout")
	}
	checkoutPoller.Close()

	log.Info("storefront stopped")
	return nil
}
