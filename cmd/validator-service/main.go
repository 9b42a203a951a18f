// Command validator-service exposes the validator registry over HTTP.
//
// It lists validator defaults per language, stores named profiles in Redis or
// SQL, and publishes catalog snapshots to Kafka and/or AMQP. A gRPC health
// service reports SERVING once validator discovery has completed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/BigKAA/redpen-go/validator"
	_ "github.com/BigKAA/redpen-go/validator/checks"
	"github.com/BigKAA/redpen-go/validator/contrib/amqppub"
	"github.com/BigKAA/redpen-go/validator/contrib/catalogsync"
	"github.com/BigKAA/redpen-go/validator/contrib/kafkapub"
	"github.com/BigKAA/redpen-go/validator/contrib/redisstore"
	"github.com/BigKAA/redpen-go/validator/contrib/sqlstore"
)

// healthService is the gRPC health service name reported alongside "".
const healthService = "redpen.ValidatorRegistry"

// Config holds the service configuration read from the environment.
type Config struct {
	Port         string
	GRPCPort     string
	StoreURL     string
	KafkaBrokers []string
	KafkaTopic   string
	AMQPURL      string
	AMQPExchange string
	DefaultLang  string

	// PublishInterval enables periodic catalog publishing when positive.
	PublishInterval time.Duration
	PublishLangs    []string
}

func loadConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		GRPCPort:     getEnv("GRPC_PORT", "9090"),
		StoreURL:     os.Getenv("STORE_URL"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", kafkapub.DefaultTopic),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", amqppub.DefaultExchange),
		DefaultLang:  getEnv("DEFAULT_LANG", validator.DefaultLang),
	}
	cfg.KafkaBrokers = splitList(os.Getenv("KAFKA_BROKERS"))
	cfg.PublishLangs = splitList(getEnv("PUBLISH_LANGS", cfg.DefaultLang))

	if raw := os.Getenv("PUBLISH_INTERVAL"); raw != "" {
		d, err := parseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PUBLISH_INTERVAL %q: %w", raw, err)
		}
		cfg.PublishInterval = d
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseDuration accepts a Go duration ("30s", "5m") or a number of seconds ("30", "12.5").
func parseDuration(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected seconds or a Go duration: %q", s)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// storeCloser is a profile store owning a connection.
type storeCloser interface {
	validator.ProfileStore
	io.Closer
}

// initStore connects to the profile store named by rawURL.
// An empty URL disables the profile endpoints.
func initStore(ctx context.Context, rawURL string) (storeCloser, error) {
	if rawURL == "" {
		return nil, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if strings.HasPrefix(rawURL, "redis://") || strings.HasPrefix(rawURL, "rediss://") {
		opts, err := redis.ParseURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid STORE_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return redisstore.New(client), nil
	}

	store, err := sqlstore.Open(rawURL)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(pingCtx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

func initPublishers(ctx context.Context, cfg *Config) ([]publisher, error) {
	var pubs []publisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafkapub.New(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	if cfg.AMQPURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		p, err := amqppub.Dial(dialCtx, cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			closeAll(pubs)
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

func closeAll(pubs []publisher) {
	for _, p := range pubs {
		_ = p.Close()
	}
}

func newPublishScheduler(cfg *Config, factory *validator.Factory, pubs []publisher, logger *slog.Logger) (*catalogsync.Scheduler, error) {
	targets := make([]catalogsync.Publisher, len(pubs))
	for i, p := range pubs {
		targets[i] = p
	}
	return catalogsync.NewScheduler(factory, targets,
		catalogsync.WithInterval(cfg.PublishInterval),
		catalogsync.WithLanguages(cfg.PublishLangs...),
		catalogsync.WithLogger(logger),
		catalogsync.WithRegisterer(prometheus.DefaultRegisterer),
	)
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		"port", cfg.Port,
		"grpc_port", cfg.GRPCPort,
		"default_lang", cfg.DefaultLang,
	)

	ctx := context.Background()

	factory, err := validator.NewFactory(
		validator.WithLogger(logger),
		validator.WithRegisterer(prometheus.DefaultRegisterer),
	)
	if err != nil {
		logger.Error("factory initialization failed", "error", err)
		os.Exit(1)
	}

	store, err := initStore(ctx, cfg.StoreURL)
	if err != nil {
		logger.Error("profile store initialization failed", "error", err)
		os.Exit(1)
	}

	pubs, err := initPublishers(ctx, cfg)
	if err != nil {
		logger.Error("publisher initialization failed", "error", err)
		os.Exit(1)
	}

	srv := &server{
		factory:     factory,
		publishers:  pubs,
		defaultLang: cfg.DefaultLang,
		logger:      logger,
	}
	if store != nil {
		srv.store = store
		logger.Info("profile store connected")
	}

	// gRPC health
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthServer.SetServingStatus(healthService, healthpb.HealthCheckResponse_NOT_SERVING)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Error("failed to listen grpc", "error", err)
		os.Exit(1)
	}
	go func() {
		logger.Info("starting grpc server", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc server failed", "error", err)
			os.Exit(1)
		}
	}()

	factory.Discover()
	logger.Info("validators discovered", "count", factory.Registry().Len())
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)

	var sched *catalogsync.Scheduler
	if cfg.PublishInterval > 0 && len(pubs) > 0 {
		sched, err = newPublishScheduler(cfg, factory, pubs, logger)
		if err != nil {
			logger.Error("publish scheduler initialization failed", "error", err)
			os.Exit(1)
		}
		if err := sched.Start(ctx); err != nil {
			logger.Error("publish scheduler start failed", "error", err)
			os.Exit(1)
		}
		srv.sync = sched
		logger.Info("periodic catalog publishing started",
			"interval", cfg.PublishInterval,
			"langs", cfg.PublishLangs,
		)
	}

	// HTTP
	mux := http.NewServeMux()
	srv.routes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting http server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	logger.Info("shutdown signal received", "signal", sig)

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()

	if sched != nil {
		sched.Stop()
	}
	closeAll(pubs)
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("profile store close failed", "error", err)
		}
	}
	logger.Info("shutdown complete")
}
