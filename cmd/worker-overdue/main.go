package main

import (
	"context"

	"github.com/Behyna/pawn-services/internal/config"
	"github.com/Behyna/pawn-services/internal/jobs"
	"github.com/Behyna/pawn-services/internal/metrics"
	"github.com/Behyna/pawn-services/internal/publishers"
	"github.com/Behyna/pawn-services/internal/repository"
	"github.com/Behyna/pawn-services/internal/service"
	"github.com/Behyna/pawn-services/pkg/approval"
	"github.com/Behyna/pawn-services/pkg/httpclient"
	"github.com/Behyna/pawn-services/pkg/mq"
	"github.com/Behyna/pawn-services/pkg/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "pawn-worker-overdue"

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,

			NewConnectionDB,
			NewMQConnection,
			NewMQPublisher,

			repository.NewPawnTransactionRepository,
			repository.NewPaymentRepository,
			repository.NewAuditRepository,
			repository.NewTransactionManager,

			NewMetrics,
			metrics.NewCollector,
			NewClock,
			NewBalanceCache,
			NewEventPublisher,
			NewApprover,
			service.NewLocker,
			service.NewLedgerWriter,
			service.NewStatusService,

			NewOverdueSweep,
			NewScheduler,
		),
		fx.Invoke(runOverdueWorker),
	).Run()
}

func runOverdueWorker(cfg *config.Config, scheduler *cron.Cron, sweep *jobs.OverdueSweep, collector *metrics.Collector,
	rabbit *mq.RabbitMQ, logger *zap.Logger, lc fx.Lifecycle) error {
	appCtx, cancel := context.WithCancel(context.Background())

	_, err := scheduler.AddFunc(cfg.Worker.Schedule, func() {
		if _, err := sweep.Run(appCtx); err != nil {
			logger.Error("overdue sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		logger.Error("invalid worker schedule", zap.String("schedule", cfg.Worker.Schedule), zap.Error(err))
		return err
	}

	metricsApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	metricsApp.Use(metrics.HealthCheckMiddleware(serviceName,
		collector.DatabaseCheck(),
		metrics.HealthCheck{Name: "rabbitmq", Check: rabbit.Ping},
	))
	metricsApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareFanout(cfg.RabbitMQ.Exchange); err != nil {
				logger.Error("declare exchange failed", zap.Error(err))
				return err
			}

			collector.Start(cfg.Metrics.CollectInterval)
			scheduler.Start()

			go func() {
				if err := metricsApp.Listen(cfg.Worker.MetricsPort); err != nil {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()

			logger.Info("overdue worker started", zap.String("schedule", cfg.Worker.Schedule))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping overdue worker")
			cancel()

			select {
			case <-scheduler.Stop().Done():
			case <-ctx.Done():
			}

			collector.Stop()
			_ = metricsApp.ShutdownWithContext(ctx)

			return rabbit.Close()
		},
	})

	return nil
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return mysql.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
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

// NewBalanceCache is disabled here; API instances drop their entries when the
// sweep's ledger events arrive.
func NewBalanceCache(clock service.Clock) service.BalanceCache {
	return service.NewMemoryBalanceCache(0, clock)
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

func NewOverdueSweep(cfg *config.Config, status service.StatusService, clock service.Clock, m *metrics.Metrics,
	logger *zap.Logger) *jobs.OverdueSweep {
	return jobs.NewOverdueSweep(status, clock, cfg.Worker.BatchSize, m, logger)
}

func NewScheduler(clock service.Clock, logger *zap.Logger) *cron.Cron {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
	return cron.New(
		cron.WithLocation(clock().Location()),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
}
