package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/residence-leads/internal/config"
	"github.com/xavierca1/residence-leads/internal/entity"
	"github.com/xavierca1/residence-leads/internal/infra/auth"
	"github.com/xavierca1/residence-leads/internal/infra/database"
	"github.com/xavierca1/residence-leads/internal/infra/http/handlers"
	"github.com/xavierca1/residence-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/residence-leads/internal/infra/logging"
	"github.com/xavierca1/residence-leads/internal/infra/mail"
	"github.com/xavierca1/residence-leads/internal/infra/memory"
	"github.com/xavierca1/residence-leads/internal/infra/queue"
	"github.com/xavierca1/residence-leads/internal/infra/ratelimit"
	"github.com/xavierca1/residence-leads/internal/infra/worker"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     "residence-leads@" + handlers.Version,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// 1. Lead store
	var (
		db       *sql.DB
		leadRepo entity.LeadRepositoryInterface
	)
	if cfg.Database.InMemory() {
		log.Warn("using in-memory lead store, leads are lost on restart")
		leadRepo = memory.NewLeadRepository()
	} else {
		var err error
		db, err = database.NewDBConnection(cfg.Database.Driver, cfg.Database.DSN, database.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := database.MigrateUp(db); err != nil {
				return err
			}
		}
		leadRepo = database.NewLeadRepository(db)
	}

	// 2. Rate limiter
	var limiter usecase.RateLimiter
	switch cfg.RateLimit.Backend {
	case config.LimiterRedis:
		rdb, err := ratelimit.NewRedisClient(cfg.RateLimit.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	default:
		mem := ratelimit.NewMemoryLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
		go worker.NewLimiterSweeper(mem, cfg.RateLimit.SweepInterval, log).Start(ctx)
		limiter = mem
	}

	// 3. Notifications: broker -> worker -> channels, or channels directly
	var (
		notifier   usecase.LeadNotifier
		downstream usecase.LeadNotifier
		channels   usecase.Notifiers
		rabbitMQ   *queue.RabbitMQ
		async      *mail.AsyncNotifier
	)
	if cfg.Mail.Enabled() {
		channels = append(channels, mail.NewEmailSender(
			cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
			cfg.Mail.From, cfg.Mail.NotifyTo, cfg.Mail.AdminURL,
		))
	}
	if cfg.Kommo.Enabled() {
		channels = append(channels, kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken, cfg.Kommo.StatusID, log))
	}
	if len(channels) > 0 {
		downstream = channels
	}

	switch {
	case cfg.RabbitMQ.Enabled():
		var err error
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		notifier = queue.NewProducer(rabbitMQ.Ch)
		if downstream != nil {
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				return fmt.Errorf("open consumer channel: %w", err)
			}
			w := queue.NewWorker(consumerCh, downstream, log)
			go func() {
				if err := w.Start(ctx, queue.QueueName); err != nil {
					log.WithError(err).Error("lead notification worker stopped")
				}
			}()
		}
	case downstream != nil:
		async = mail.NewAsyncNotifier(downstream, log)
		notifier = async
	default:
		log.Info("no notification channel configured")
	}

	// 4. Admin gate
	gate, err := auth.NewAdminGate(cfg.Admin.Password, cfg.Admin.SessionSecret, cfg.Admin.SessionTTL)
	if err != nil {
		return fmt.Errorf("admin gate: %w", err)
	}

	// 5. Use cases and router
	var brokerConn *amqp.Connection
	if rabbitMQ != nil {
		brokerConn = rabbitMQ.Conn
	}
	router := handlers.NewRouter(handlers.RouterDeps{
		CaptureLeadUC: usecase.NewCaptureLeadUseCase(leadRepo, limiter, notifier, log),
		TriageUC:      usecase.NewTriageLeadUseCase(leadRepo, log),
		Gate:          gate,
		CookieName:    cfg.Admin.CookieName,
		SecureCookie:  cfg.Admin.SecureCookie,
		Health:        handlers.NewHealthHandler(db, brokerConn, cfg.Database.Driver, log),
		CORSOrigins:   cfg.Server.AllowedOrigins(),
		Log:           log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("lead intake server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if async != nil {
		async.Wait()
	}
	return nil
}
