package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"cebim/internal/amqp"
	"cebim/internal/auth"
	"cebim/internal/cli"
	apphttp "cebim/internal/http"
	"cebim/internal/ledger"
	"cebim/internal/log"
	"cebim/internal/notify"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	store, cleanup := cli.OpenStore(logger, cfg)

	broker := notify.NewBroker()
	listeners := notify.Multi{broker}

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		listeners = append(listeners, amqpClient)
		logger.Info("AMQP change fan-out enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := ledger.New(store, listeners, logger)

	opts := apphttp.Options{PostLoginRedirect: cfg.PostLoginRedirect}
	if cfg.AuthEnabled() {
		opts.Sessions = auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
		opts.Google = auth.NewGoogle(auth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
		}, logger)
		logger.Info("Google sign-in enabled")
	} else {
		logger.Info("Authentication disabled - no GOOGLE_CLIENT_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, svc, broker, logger, opts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 0 // SSE connections stay open
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if cleanup != nil {
			_ = cleanup()
		}
	})

	logger.Info("Starting cebim server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		"backend", cfg.StorageBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
