package main

import (
	"context"
	"francoggm/versapay-checkout/internal/app/sale"
	"francoggm/versapay-checkout/internal/app/server"
	"francoggm/versapay-checkout/internal/app/server/handlers"
	"francoggm/versapay-checkout/internal/app/session"
	"francoggm/versapay-checkout/internal/app/storage"
	"francoggm/versapay-checkout/internal/app/workers"
	"francoggm/versapay-checkout/internal/app/workers/processors"
	"francoggm/versapay-checkout/internal/config"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the checkout endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	orders, closeOrders, err := newOrderStore(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer closeOrders()

	// Worker queues
	completionsCh := make(chan any, cfg.Workers.CompletionBufferSize)

	// Stores
	wallets := storage.NewWalletStore(rdb)
	slots := storage.NewPaymentSlotStore(rdb, cfg.Checkout.SlotTTL)

	// Services
	api := newProcessorClient(cfg)
	provisioner := session.NewProvisioner(cfg, api, wallets)
	finalizer := sale.NewFinalizer(cfg, api, slots)
	recorder := sale.NewRecorder(slots, orders, completionsCh)

	// Worker orchestrators
	completionOrchestrator := workers.NewOrchestrator(
		cfg.Workers.CompletionCount,
		true,
		completionsCh,
		processors.NewCompletionProcessor(orders),
		workers.WithRetryBackoff(cfg.Workers.CompletionBackoff),
	)
	completionOrchestrator.StartWorkers(context.WithoutCancel(ctx))

	h := handlers.NewHandlers(cfg, provisioner, finalizer, recorder, wallets, rdb)
	srv := server.NewServer(cfg, h)

	runErr := srv.Run(ctx)

	// Drain pending completions before the stores go away. Handlers that
	// outlived the shutdown timeout find the queue closed and skip it.
	recorder.Close()
	completionOrchestrator.Wait()
	slog.Info("server stopped")

	return runErr
}
