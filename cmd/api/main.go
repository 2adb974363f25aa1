package main

import (
	"context"

	"github.com/Behyna/pawn-services/internal/api"
	v1 "github.com/Behyna/pawn-services/internal/api/v1"
	"github.com/Behyna/pawn-services/internal/api/validator"
	"github.com/Behyna/pawn-services/internal/config"
	"github.com/Behyna/pawn-services/internal/consumers"
	errmiddleware "github.com/Behyna/pawn-services/internal/error"
	"github.com/Behyna/pawn-services/internal/metrics"
	"github.com/Behyna/pawn-services/internal/publishers"
	"github.com/Behyna/pawn-services/internal/repository"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/Behyna/pawn-services/pkg/approval"
	"github.com/Behyna/pawn-services/pkg/httpclient"
	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/Behyna/pawn-services/pkg/mysql"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,
			NewMQConsumer,

			repository.NewPawnTransactionRepository,
			repository.NewPaymentRepository,
			repository.NewExtensionRepository,
			repository.NewAuditRepository,
			repository.NewTransactionManager,

			NewMetrics,
			metrics.NewCollector,
			NewClock,
			NewBalanceCache,
			NewEventPublisher,
			NewApprover,
			NewReversalPolicy,
			service.NewLocker,
			service.NewLedgerWriter,

			service.NewTransactionService,
			service.NewPaymentService,
			service.NewExtensionService,
			service.NewStatusService,
			service.NewBalanceService,
			service.NewReversalService,

			NewCacheConsumer,
			NewValidator,
			NewFiber,
			v1.NewHandler,
		),
		fx.Invoke(runServer),
	).Run()
}

func runServer(app *fiber.App, handler *v1.Handler, cfg *config.Config, cacheConsumer consumers.CacheInvalidationConsumer,
	collector *metrics.Collector, rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, api.RouteConfig{
		Auth:        cfg.Auth,
		WriteLimit:  cfg.API.WriteRateLimit,
		WriteWindow: cfg.API.WriteRateWindow,
	})

	appCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareFanout(cfg.RabbitMQ.Exchange); err != nil {
				logger.Error("declare exchange failed", zap.Error(err))
				return err
			}

			queue, err := rabbit.BindExclusiveQueue(cfg.RabbitMQ.Exchange)
			if err != nil {
				logger.Error("bind cache queue failed", zap.Error(err))
				return err
			}

			go func() {
				if err := cacheConsumer.Consume(appCtx, queue); err != nil && appCtx.Err() == nil {
					logger.Error("cache invalidation consumer exited", zap.Error(err))
				}
			}()

			collector.Start(cfg.Metrics.CollectInterval)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
			}()

			logger.Info("pawn ledger api started", zap.String("port", cfg.API.Port))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping pawn ledger api")
			cancel()
			collector.Stop()

			shutdownCtx, done := context.WithTimeout(ctx, cfg.API.ShutdownTimeout)
			defer done()
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				logger.Error("http shutdown failed", zap.Error(err))
			}

			return rabbit.Close()
		},
	})
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	db, err := mysql.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := repository.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate schema", zap.Error(err))
		return nil, err
	}

	return db, nil
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewClock(cfg *config.Config) (service.Clock, error) {
	loc, err := cfg.Ledger.Location()
	if err != nil {
		return nil, err
	}
	return service.NewClock(loc), nil
}

func NewBalanceCache(cfg *config.Config, clock service.Clock, m *metrics.Metrics) service.BalanceCache {
	return metrics.NewInstrumentedCache(service.NewMemoryBalanceCache(cfg.Ledger.CacheTTL, clock), m)
}

func NewEventPublisher(cfg *config.Config, publisher mq.Publisher, logger *zap.Logger) service.EventPublisher {
	return publishers.NewLedgerEventPublisher(publisher, cfg.RabbitMQ.Exchange, logger)
}

func NewApprover(cfg *config.Config, logger *zap.Logger) service.Approver {
	if cfg.Approval.Mode == config.ApprovalModeLocal {
		return service.NewPINApprover(cfg.Approval.PINs, logger)
	}

	client := httpclient.NewHTTPClient(cfg.Approval.Remote.Timeout)
	return service.NewRemoteApprover(approval.NewClient(cfg.Approval.Remote, client), logger)
}

func NewReversalPolicy(cfg *config.Config) service.ReversalPolicy {
	policy := service.DefaultReversalPolicy()
	if cfg.Ledger.ReversalWindow > 0 {
		policy.Window = cfg.Ledger.ReversalWindow
	}
	if cfg.Ledger.MaxDailyReversals > 0 {
		policy.MaxPerDay = cfg.Ledger.MaxDailyReversals
	}
	return policy
}

func NewCacheConsumer(cfg *config.Config, cache service.BalanceCache, consumer mq.Consumer,
	logger *zap.Logger) consumers.CacheInvalidationConsumer {
	return consumers.NewCacheInvalidationConsumer(cache, consumer, cfg.RabbitMQ.Prefetch, logger)
}

func NewValidator(m *metrics.Metrics) (validator.IXValidator, error) {
	return validator.NewXValidator(playground.New(), m)
}

func NewFiber(cfg *config.Config, m *metrics.Metrics, collector *metrics.Collector, rabbit *mq.RabbitMQ,
	logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.API.ServiceName,
		ErrorHandler: errmiddleware.ErrorHandler(logger),
	})

	app.Use(metrics.HealthCheckMiddleware(cfg.API.ServiceName,
		collector.DatabaseCheck(),
		metrics.HealthCheck{Name: "rabbitmq", Check: rabbit.Ping},
	))
	app.Use(metrics.HTTPMetricsMiddleware(m, cfg.API.SlowRequest, logger))

	return app
}
