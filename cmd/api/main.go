package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/glowcart/sales-agent/internal/api/router"
	appconfig "github.com/glowcart/sales-agent/internal/config"
	"github.com/glowcart/sales-agent/internal/conversation"
	"github.com/glowcart/sales-agent/internal/leads"
	"github.com/glowcart/sales-agent/internal/notify"
	"github.com/glowcart/sales-agent/internal/observability/metrics"
	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/internal/payments"
	"github.com/glowcart/sales-agent/internal/webchat"
	"github.com/glowcart/sales-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting sales-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	convMetrics := metrics.NewConversationMetrics(registry)

	store, cleanup := buildOrderStore(ctx, cfg, logger)
	defer cleanup()

	paystack := payments.NewPaystackClient(cfg.PaystackSecretKey, logger).WithBaseURL(cfg.PaystackBaseURL)
	paymentSvc := payments.NewService(paystack, convMetrics, logger)

	archiver := buildArchiver(ctx, cfg, convMetrics, logger)

	engine := conversation.NewEngine(conversation.EngineOptions{
		Store:    store,
		Machine:  order.NewMachine(paymentSvc, logger),
		Advisor:  buildAdvisor(ctx, cfg, logger),
		Archiver: archiverOrNil(archiver),
		Metrics:  convMetrics,
		Logger:   logger,
		MaxTurns: cfg.TranscriptMaxTurns,
	})

	notifySvc := notify.NewService(buildEmailSender(ctx, cfg, logger), cfg.MerchantNotifyEmail, cfg.StoreName, logger)

	routerCfg := &router.Config{
		Logger:          logger,
		ChatHandler:     conversation.NewHandler(engine, logger),
		PaystackWebhook: payments.NewWebhookHandler(cfg.PaystackSecretKey, store, notifySvc, convMetrics, logger),
		WebchatHandler:  webchat.NewHandler(engine, cfg.Greeting(), logger),
		AdminAuthSecret: cfg.AdminJWTSecret,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if archiver != nil {
		routerCfg.LeadsHandler = leads.NewHandler(archiver, logger)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(routerCfg),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// buildOrderStore picks the order store: Postgres wins, then Redis, then a
// process-local map for development.
func buildOrderStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (order.Store, func()) {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		logger.Info("using postgres order store")
		return order.NewPostgresStore(pool), pool.Close
	}

	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		logger.Info("using redis order store", "addr", cfg.RedisAddr)
		return order.NewRedisStore(client), func() { _ = client.Close() }
	}

	logger.Warn("no DATABASE_URL or REDIS_ADDR set, using in-memory order store")
	return order.NewMemoryStore(), func() {}
}

// buildAdvisor assembles the LLM stack. With both providers configured the
// secondary becomes a fallback. Without any key the advisor is disabled and
// customers get the deterministic apology for advice questions.
func buildAdvisor(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.AdvisoryProvider {
	var openaiClient, geminiClient conversation.LLMClient

	if cfg.OpenAIAPIKey != "" {
		client, err := conversation.NewOpenAILLMClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Error("failed to init openai client", "error", err)
		} else {
			openaiClient = client
		}
	}
	if cfg.GeminiAPIKey != "" {
		client, err := conversation.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to init gemini client", "error", err)
		} else {
			geminiClient = client
		}
	}

	primary, fallback := openaiClient, geminiClient
	if cfg.AdvisorProvider == "gemini" {
		primary, fallback = geminiClient, openaiClient
	}
	if primary == nil {
		primary, fallback = fallback, nil
	}
	if primary == nil {
		logger.Warn("no advisor provider configured, advice replies disabled")
		return nil
	}

	return conversation.NewAdvisor(
		conversation.NewFallbackLLMClient(primary, fallback, logger),
		cfg.AdvisorTimeout,
		logger,
	)
}

// buildArchiver assembles the encrypted lead archive. Without an encryption
// key no lead data is ever written.
func buildArchiver(ctx context.Context, cfg *appconfig.Config, m *metrics.ConversationMetrics, logger *logging.Logger) *leads.Archiver {
	if cfg.LeadEncryptionKey == "" {
		logger.Warn("LEAD_ENCRYPTION_KEY not set, lead archiving disabled")
		return nil
	}
	cipher, err := leads.NewCipher(cfg.LeadEncryptionKey)
	if err != nil {
		logger.Error("invalid lead encryption key", "error", err)
		os.Exit(1)
	}

	var s3Log *leads.S3Log
	if cfg.LeadLogBucket != "" {
		awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		s3Log = leads.NewS3Log(s3.NewFromConfig(awsCfg), cfg.LeadLogBucket)
	}

	return leads.NewArchiver(cipher, leads.NewFileLog(cfg.LeadLogPath), s3Log, m, logger)
}

func archiverOrNil(a *leads.Archiver) conversation.LeadArchiver {
	if a == nil {
		return nil
	}
	return a
}

func buildEmailSender(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			logger.Warn("sendgrid selected but SENDGRID_API_KEY missing")
			return notify.NewStubEmailSender(logger)
		}
		return sender
	case "ses":
		awsCfg, err := appconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config for SES", "error", err)
			return notify.NewStubEmailSender(logger)
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{FromEmail: cfg.SESFromEmail}, logger)
		if sender == nil {
			return notify.NewStubEmailSender(logger)
		}
		return sender
	default:
		return notify.NewStubEmailSender(logger)
	}
}
