package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/market-notify-api/internal/config"
	"github.com/market-notify-api/internal/infrastructure/dynamo"
	"github.com/market-notify-api/internal/infrastructure/marketdata"
	snsinfra "github.com/market-notify-api/internal/infrastructure/sns"
	transporthttp "github.com/market-notify-api/internal/transport/http"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, reading from environment")
	}

	cfg := config.Load()
	setupLogging(cfg)

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Market data provider client.
	marketClient := marketdata.NewClient(cfg)

	// SNS push sender is optional: without it job runs fail with a delivery
	// error but the process itself still serves.
	var push snsinfra.PushSender
	if sender, err := snsinfra.NewSender(cfg); err == nil {
		push = sender
	} else {
		log.Warn().Err(err).Msg("SNS push sender not available")
		push = unavailableSender{}
	}

	deps := &transporthttp.Deps{
		AlertRepo:        dynamo.NewAlertRepo(dynamoClient, cfg.DynamoTables.PriceAlerts),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		SentRepo:         dynamo.NewSentRepo(dynamoClient, cfg.DynamoTables.SentNotifications),
		MarketClient:     marketClient,
		Push:             push,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // job runs can take tens of seconds
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.AppPort).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.AppEnv == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// unavailableSender fails every send so a missing SNS configuration shows up
// as delivery errors in job responses instead of a startup crash.
type unavailableSender struct{}

func (unavailableSender) Send(ctx context.Context, title, body string, payload map[string]string) (*snsinfra.DeliveryResult, error) {
	return nil, fmt.Errorf("push sender not configured")
}
