package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/api"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/device"
	"storefront/internal/feedback"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/state"
	"storefront/internal/storage"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !feedback.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		if handler.IsUsage(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)

	// Cancel on interrupt so pending work can be flushed
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open local state
	backend, closeBackend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open state storage: %w", err)
	}
	defer closeBackend()

	st := state.New(backend, logger)
	if err := st.Hydrate(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	dev := device.Detect(cfg.Tracking.UserAgent)

	// Initialize API client
	transport := middleware.Chain(http.DefaultTransport,
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Accept(dev.UserAgent),
		middleware.BearerAuth(st.Token),
		middleware.Logging(logger),
	)
	client, err := api.New(cfg.API, transport, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize API client: %w", err)
	}

	queries := cache.New(cfg.API.CacheTTL)
	notifier := feedback.NewWriter(os.Stderr)

	// Initialize services
	accounts := service.NewAccountService(client, st, queries, notifier, logger)
	catalog := service.NewCatalogService(client, client, st, queries, notifier, logger)
	carts := service.NewCartService(client, client, st, queries, notifier, cfg.Cart, logger)
	defer carts.Close()
	orders := service.NewOrderService(client, st, queries, notifier, logger)
	visitors := service.NewVisitorService(client, st, queries, notifier, dev, cfg.Tracking, logger)
	admin := service.NewAdminService(client, client, client, client, st, queries, notifier, logger)

	// The beacon fires once per guest on first use.
	visitors.Track(ctx)

	// Initialize command handlers
	out := os.Stdout
	r := router.New(router.Handlers{
		Account: handler.NewAccountHandler(accounts, st, out, logger),
		Catalog: handler.NewCatalogHandler(catalog, out, logger),
		Cart:    handler.NewCartHandler(carts, catalog, st, out, logger),
		Order:   handler.NewOrderHandler(orders, out, logger),
		Visitor: handler.NewVisitorHandler(visitors, out, logger),
		Admin:   handler.NewAdminHandler(admin, orders, visitors, out, logger),
	}, logger)

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		r.Usage(os.Stderr)
		return nil
	}

	err = r.Run(ctx, args)
	if handler.IsUsage(err) {
		r.Usage(os.Stderr)
	}
	return err
}
