// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skillconnect/internal/common/aws"
	"skillconnect/internal/common/config"
	"skillconnect/internal/common/database"
	"skillconnect/internal/common/genai"
	"skillconnect/internal/common/logger"
	"skillconnect/internal/common/observability"
	"skillconnect/internal/handlers/account"
	"skillconnect/internal/handlers/ai/advice"
	"skillconnect/internal/handlers/ai/recommend"
	"skillconnect/internal/handlers/booking"
	"skillconnect/internal/handlers/earnings"
	"skillconnect/internal/handlers/listing"
	"skillconnect/internal/handlers/review"
	"skillconnect/internal/notify"
	"skillconnect/internal/server"
	"skillconnect/internal/store"
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
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting SkillConnect backend...")

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	tracing, err := observability.NewTracing(cfg.App.Name, cfg.Server.JaegerEndpoint)
	if err != nil {
		zapLog.Warn("tracing init failed, continuing without it", zap.Error(err))
	} else {
		defer tracing.Shutdown()
	}

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Stores ---
	users := store.NewUserStore(pg.GetDB(), log)
	bookings := store.NewBookingStore(pg.GetDB(), log)
	reviews := store.NewReviewStore(pg.GetDB(), log)
	listings := store.NewListingStore(es.Client, cfg.Database.Elasticsearch.ListingsIndex, log)
	sessionTTL := time.Duration(cfg.Auth.SessionTTLDays) * 24 * time.Hour
	sessions := store.NewSessionStore(rdb.GetClient(), sessionTTL, log)

	// --- Notifications (optional AWS clients) ---
	var emailSender notify.EmailSender
	var smsSender notify.SMSSender
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SES init failed, email notifications disabled", zap.Error(err))
		} else {
			emailSender = ses
		}
	}
	if cfg.Notifications.SMS.Enabled {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Warn("SNS init failed, SMS notifications disabled", zap.Error(err))
		} else {
			smsSender = sns
		}
	}
	notifier := notify.New(emailSender, smsSender, cfg.Notifications, log)

	// --- AI client ---
	groq := genai.NewClient(genai.Config{
		BaseURL: cfg.APIs.Groq.BaseURL,
		APIKey:  cfg.APIs.Groq.APIKey,
		Model:   cfg.APIs.Groq.Model,
		Timeout: time.Duration(cfg.APIs.Groq.Timeout) * time.Millisecond,
	}, log)

	// --- Handlers ---
	handlers := server.Handlers{
		Account:   account.NewHandler(users, sessions, cfg.Auth, log),
		Listing:   listing.NewHandler(listings, users, log),
		Review:    review.NewHandler(reviews, bookings, listings, users, log),
		Booking:   booking.NewHandler(bookings, listings, users, notifier, log),
		Earnings:  earnings.NewHandler(bookings, log),
		Recommend: recommend.NewHandler(recommend.NewService(listings, groq, tracing, log), log),
		Advice:    advice.NewHandler(advice.NewService(listings, groq, log), log),
	}

	router := server.New(handlers, server.Options{
		Sessions:      sessions,
		CookieName:    cfg.Auth.CookieName,
		Logger:        log,
		Observability: obs,
	})

	apiServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    cfg.Server.MetricsAddress,
		Handler: metricsMux,
	}

	go func() {
		zapLog.Info("metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("API server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("metrics server shutdown failed", zap.Error(err))
	}

	zapLog.Info("Shutdown complete")
}
