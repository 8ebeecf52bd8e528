// cmd/portal-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recruitment-portal/internal/api"
	"recruitment-portal/internal/api/middleware"
	awsclient "recruitment-portal/internal/common/aws"
	"recruitment-portal/internal/common/config"
	"recruitment-portal/internal/common/database"
	"recruitment-portal/internal/common/logger"
	"recruitment-portal/internal/common/observability"
	"recruitment-portal/internal/messaging"
	"recruitment-portal/internal/repository"
	car "recruitment-portal/internal/workers/application/create-application-record"
	sn "recruitment-portal/internal/workers/application/send-notification"
	sa "recruitment-portal/internal/workers/application/submit-application"
	vad "recruitment-portal/internal/workers/application/validate-application-data"
	es "recruitment-portal/internal/workers/communication/email-send"
	"recruitment-portal/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recruitment portal...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("devMode", cfg.Storage.DevMode),
	)

	obs := observability.New(cfg.App.Name, cfg.App.Version, nil)
	defer obs.Shutdown()

	ctx := context.Background()

	positions, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("position catalog invalid", zap.Error(err))
	}
	zapLog.Info("Position catalog loaded", zap.Int("positions", positions.Len()))

	store, closeStore, err := openStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("application store unavailable", zap.Error(err))
	}
	defer closeStore()

	// --- Rate limiter (optional, fails open) ---
	var limiter *middleware.RedisLimiter
	if cfg.RateLimit.Enabled {
		redis := database.NewRedis(cfg.Database.Redis)
		defer redis.Close()
		if err := redis.Ping(ctx); err != nil {
			zapLog.Warn("Redis not reachable, rate limiter will allow all requests", zap.Error(err))
		}
		limiter = middleware.NewRedisLimiter(redis.Client, cfg.RateLimit.Requests,
			config.GetDuration(cfg.RateLimit.Window), cfg.RateLimit.Prefix, log)
	}

	// --- Notifications ---
	notifyCfg := sn.LoadConfig(cfg)
	if err := notifyCfg.Validate(); err != nil {
		zapLog.Fatal("notification config invalid", zap.Error(err))
	}
	mailer, sms, err := buildSenders(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notification setup failed", zap.Error(err))
	}
	notifier := sn.NewHandler(notifyCfg, mailer, sms, log)

	// --- Submission pipeline ---
	validator := vad.NewValidator(vad.LoadConfig(cfg.Submission), positions, log)
	records := car.NewHandler(car.LoadConfig(cfg.Submission), store, car.NewIDGenerator(), log)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers outlive the HTTP server so queued notifications drain.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	g, gctx := errgroup.WithContext(context.Background())

	var dispatcher sn.Dispatcher
	var queueHealth api.HealthChecker
	switch cfg.Notifications.Queue {
	case config.QueueNATS:
		nats := cfg.Integrations.NATS
		conn, err := messaging.Connect(nats.URL, log)
		if err != nil {
			zapLog.Fatal("NATS unavailable", zap.Error(err))
		}
		publisher := messaging.NewPublisher(conn, nats.Subject, log)
		defer publisher.Close()
		consumer := messaging.NewConsumer(conn, nats.Subject, nats.Queue, notifier, log)
		defer consumer.Close()
		g.Go(func() error { return consumer.Start(workerCtx) })
		dispatcher = publisher
		queueHealth = consumer
	default:
		queue := sn.NewLocalQueue(notifier, notifyCfg.Workers, notifyCfg.Buffer, log)
		g.Go(func() error { return queue.Run(workerCtx) })
		dispatcher = queue
	}

	submitter := sa.NewService(validator, records, dispatcher, obs, log)

	// --- HTTP server ---
	server := api.NewServer(api.Options{
		Submitter:    submitter,
		Catalog:      positions,
		Store:        store,
		Admin:        cfg.Admin,
		Version:      cfg.App.Version,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Limiter:      limiter,
		Queue:        queueHealth,
		Logger:       log,
	})
	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.Router(),
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadHeaderTimeout),
	}

	g.Go(func() error {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// --- Graceful Shutdown ---
	g.Go(func() error {
		select {
		case <-sigCtx.Done():
			zapLog.Info("Shutdown signal received, stopping server...")
		case <-gctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		stopWorkers()
		return err
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("Portal stopped with error", zap.Error(err))
		return
	}
	zapLog.Info("Portal stopped gracefully")
}

// openStore connects the configured backend and prepares its indexes.
func openStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (repository.ApplicationStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		zapLog.Warn("Using in-memory store; applications are lost on restart")
		return repository.NewMemoryStore(), func() {}, nil

	case config.DriverPostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(pg.DB)
		if err := store.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, nil, err
		}
		zapLog.Info("PostgreSQL connected successfully")
		return store, func() { pg.Close() }, nil

	case config.DriverElasticsearch:
		var esClient *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewElasticsearchStore(esClient.Client, esClient.Index)
		if err := store.EnsureIndex(ctx); err != nil {
			return nil, nil, err
		}
		zapLog.Info("Elasticsearch connected successfully")
		return store, func() {}, nil

	default:
		var mc *database.MongoClient
		err := retryWithBackoff(func() error {
			var err error
			mc, err = database.NewMongo(ctx, cfg.Database.Mongo)
			return err
		}, 10, 2*time.Second, zapLog, "MongoDB connection")
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewMongoStore(mc.Collection)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = mc.Close(context.Background())
			return nil, nil, err
		}
		zapLog.Info("MongoDB connected successfully")
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Close(closeCtx)
		}, nil
	}
}

// buildSenders picks the mail transport and, when enabled, the SMS client.
func buildSenders(ctx context.Context, cfg *config.Config, log logger.Logger) (sn.Mailer, sn.SNSService, error) {
	useSES := cfg.Notifications.Provider == config.ProviderSES
	useSNS := cfg.Notifications.SMS.Enabled && cfg.Integrations.AWS.SNS.Enabled

	clients, err := awsclient.New(ctx, cfg.Integrations.AWS.Region, useSES, useSNS)
	if err != nil {
		return nil, nil, err
	}
	var sms sn.SNSService
	if clients.SNS != nil {
		sms = clients.SNS
	}

	switch cfg.Notifications.Provider {
	case config.ProviderSES:
		return sn.NewSESMailer(clients.SES), sms, nil
	case config.ProviderLog:
		return sn.NewLogMailer(log), sms, nil
	default:
		smtpCfg := es.LoadConfig(cfg)
		if err := smtpCfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("smtp config: %w", err)
		}
		return es.NewService(smtpCfg, log), sms, nil
	}
}
