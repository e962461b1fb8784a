package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	jwttoken "wasl/internal/jwt_token"
	"wasl/internal/lifecycle"
	"wasl/internal/lifecycle/handler"
	lifecyclemetrics "wasl/internal/lifecycle/metrics"
	"wasl/internal/lifecycle/service"
	"wasl/internal/lifecycle/store"
	"wasl/internal/platform/config"
	"wasl/internal/platform/httpserver"
	"wasl/internal/platform/kafka"
	"wasl/internal/platform/logger"
	"wasl/internal/platform/metrics"
	"wasl/internal/platform/redis"
	httptransport "wasl/internal/transport/http"
	"wasl/migrations"
	"wasl/pkg/platform/audit"
	"wasl/pkg/platform/audit/publishers/compliance"
	auditmemory "wasl/pkg/platform/audit/store/memory"
	auditpostgres "wasl/pkg/platform/audit/store/postgres"
	"wasl/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// outboxStore is an audit store the relay can drain.
type outboxStore interface {
	audit.Store
	audit.Outbox
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if cfg.UsesDevSigningKey() {
		log.Warn("JWT_SIGNING_KEY not set; using the development key")
	}

	lifecycleMetrics := lifecyclemetrics.New()
	checks := map[string]httptransport.HealthCheck{}

	var (
		lifecycleStore lifecycle.Store
		auditStore     outboxStore
		opts           = []service.Option{
			service.WithLogger(log),
			service.WithMetrics(lifecycleMetrics),
			service.WithAttendanceThreshold(cfg.Lifecycle.AttendanceThreshold),
			service.WithMaxCallAttempts(cfg.Lifecycle.MaxCallAttempts),
		}
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(20)
		db.SetConnMaxIdleTime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			return err
		}
		pg := store.NewPostgres(db)
		lifecycleStore = pg
		auditStore = auditpostgres.New(db)
		opts = append(opts, service.WithTx(service.NewPostgresTx(db, pg)))
		checks["database"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		lifecycleStore = store.NewInMemoryStore()
		auditStore = auditmemory.NewInMemoryStore()
		log.Warn("DATABASE_URL not set; using in-memory stores")
	}

	redisClient, err := redis.New(ctx, cfg.Redis, log)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithLocker(service.NewRedisLocker(redisClient,
			service.WithLockTTL(cfg.Lifecycle.TransitionLockTTL),
			service.WithLockLogger(log),
		)))
		checks["redis"] = redisClient.Health
	}

	auditMetrics := compliance.NewMetrics(prometheus.DefaultRegisterer)
	opts = append(opts, service.WithAuditPublisher(
		compliance.New(auditStore, compliance.WithLogger(log), compliance.WithMetrics(auditMetrics)),
	))

	engine := lifecycle.NewEngine(lifecycle.WithLogger(log))
	if err := engine.Validate(); err != nil {
		log.Error("lifecycle rules incomplete", "error", err)
		return err
	}
	svc := service.New(lifecycleStore, engine, opts...)
	svc.RegisterListeners()

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka, log)
		if err != nil {
			return err
		}
		defer producer.Close()
		if err := producer.EnsureTopic(ctx, cfg.Kafka.Partitions); err != nil {
			return err
		}
		checks["kafka"] = producer.Health

		relay := worker.NewWorker(auditStore, producer,
			worker.WithInterval(cfg.Kafka.OutboxPollInterval),
			worker.WithBatchSize(cfg.Kafka.OutboxBatchSize),
			worker.WithLogger(log),
			worker.WithMetrics(lifecycleMetrics),
		)
		g.Go(func() error {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		log.Info("outbox relay started", "topic", cfg.Kafka.Topic)
	} else {
		log.Warn("KAFKA_BROKERS not set; audit events stay in the outbox")
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Lifecycle: handler.New(svc, log),
		Validator: jwttoken.NewOperatorValidator(jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience), cfg.OperatorRoles...),
		Metrics:   metrics.New(prometheus.DefaultRegisterer),
		Checks:    checks,
		Logger:    log,
	})
	srv := httpserver.New(cfg.Addr, router, httpserver.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout))
	g.Go(func() error {
		return httpserver.Serve(ctx, srv, cfg.ShutdownTimeout, log)
	})

	return g.Wait()
}
