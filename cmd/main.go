package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tableside/internal/config"
	"tableside/internal/database"
	"tableside/internal/logger"
	"tableside/internal/messaging"
	"tableside/internal/models"
	"tableside/internal/notify"
	"tableside/internal/services/menu"
	"tableside/internal/services/order"
	"tableside/internal/services/recommend"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (order-service, ledger-subscriber)")
		port       = flag.Int("port", 0, "HTTP port (overrides config)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "order-service":
		httpPort := cfg.Server.Port
		if *port != 0 {
			httpPort = *port
		}
		if err := runOrderService(ctx, cfg, log, httpPort); err != nil {
			log.Error("service_failed", "Order service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "ledger-subscriber":
		if err := runLedgerSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Ledger subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runOrderService runs the diner-facing HTTP API.
func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	notifier, cleanup, err := buildNotifier(cfg, log)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	store := order.NewPostgresStore(db)
	service := order.NewService(store, notifier, log)
	menuService := menu.NewService(menu.NewPostgresStore(db))

	var recommender *recommend.Service
	if cfg.Notifications.AIEnabled && cfg.Notifications.RecommendURL != "" {
		recommender = recommend.NewService(cfg.Notifications.RecommendURL)
	}

	settings := models.SettingsResponse{
		AIEnabled:          recommender != nil,
		SheetLedgerEnabled: cfg.Notifications.SheetEnabled,
	}

	handler := order.NewHandler(service, menuService, recommender, settings, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("Order service started on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// buildNotifier picks how committed orders reach the channels: through the
// fanout exchange when RabbitMQ is enabled, in process otherwise. A nil
// notifier is valid and means orders are only persisted.
func buildNotifier(cfg *config.Config, log *logger.Logger) (order.Notifier, func(), error) {
	if cfg.RabbitMQ.Enabled {
		conn, err := messaging.New(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize messaging: %w", err)
		}
		publisher := messaging.NewPublisher(conn, log)
		return publisher, func() { conn.Close() }, nil
	}

	channels := notify.ChannelsFromConfig(cfg.Notifications)
	if len(channels) == 0 {
		return nil, nil, nil
	}

	timeout := time.Duration(cfg.Notifications.ChannelTimeoutSeconds) * time.Second
	return notify.NewDispatcher(channels, timeout, log), nil, nil
}

// runLedgerSubscriber consumes committed orders from the fanout queue and
// delivers them to the configured channels.
func runLedgerSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	channels := notify.ChannelsFromConfig(cfg.Notifications)
	timeout := time.Duration(cfg.Notifications.ChannelTimeoutSeconds) * time.Second
	dispatcher := notify.NewDispatcher(channels, timeout, log)

	consumer := messaging.NewConsumer(conn, log, messaging.LedgerQueue, "ledger-subscriber", prefetch)
	subscriber := notify.NewSubscriber(consumer, dispatcher, log)

	return subscriber.Start(ctx)
}
