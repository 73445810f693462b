package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swiftcart/internal/config"
	"swiftcart/internal/database"
	"swiftcart/internal/discount"
	"swiftcart/internal/events"
	"swiftcart/internal/handler"
	"swiftcart/internal/payment"
	"swiftcart/internal/repository"
	"swiftcart/internal/router"
	"swiftcart/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting swiftcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)

	// Initialize the payment-method registry and gateway
	methods, err := cfg.Payment.ParseMethods()
	if err != nil {
		return fmt.Errorf("failed to parse payment methods: %w", err)
	}
	registry, err := payment.NewRegistry(methods)
	if err != nil {
		return fmt.Errorf("failed to build payment method registry: %w", err)
	}
	gateway := payment.NewPaymobGateway(cfg.Gateway, logger)

	// Initialize the discount validator with S3 and local fallback
	var discountValidator discount.Validator
	if cfg.Discount.Enabled {
		var loader discount.Loader
		source := cfg.Discount.FilePath
		if cfg.Discount.S3Bucket != "" {
			s3Loader, err := discount.NewS3Loader(ctx, cfg.Discount.S3Bucket, cfg.Discount.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system")
				loader = discount.NewFileLoader(logger)
			} else {
				loader = s3Loader
				source = cfg.Discount.S3Key
			}
		} else {
			loader = discount.NewFileLoader(logger)
			logger.Info().Msg("using local file system for discount files")
		}
		discountValidator, err = discount.NewValidator(ctx, source, loader, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize discount validator: %w", err)
		}
	} else {
		discountValidator = discount.Disabled(logger)
		logger.Info().Msg("discount codes disabled")
	}

	// Initialize the order-event publisher
	var publisher events.Publisher
	if cfg.Events.Enabled {
		publisher, err = events.NewAMQPPublisher(cfg.Events.URL, cfg.Events.Exchange, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize event publisher: %w", err)
		}
	} else {
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(
		orderRepo, productRepo, cartRepo, addressRepo,
		gateway, registry, discountValidator, publisher, cfg.Gateway, logger,
	)
	webhookService := service.NewWebhookService(orderRepo, productRepo, cartRepo, publisher, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, cartRepo, publisher, logger)
	addressService := service.NewAddressService(addressRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	addressHandler := handler.NewAddressHandler(addressService, logger)
	paymentHandler := handler.NewPaymentHandler(registry, logger)
	webhookHandler := handler.NewWebhookHandler(webhookService, logger)

	// Initialize router
	mux := router.New(
		productHandler, cartHandler, checkoutHandler, orderHandler,
		addressHandler, paymentHandler, webhookHandler,
		cfg.Auth.APIKey, logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
