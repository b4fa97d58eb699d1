package main

import (
	"fmt"
	"francoggm/versapay-checkout/internal/app/session"
	"francoggm/versapay-checkout/internal/app/storage"
	"francoggm/versapay-checkout/internal/config"
	"francoggm/versapay-checkout/internal/models"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	var (
		amount     string
		currency   string
		customerID string
	)

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Provision a processor session and print the render data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)

			currency = strings.ToUpper(currency)
			minor, err := models.ParseAmount(amount, models.CurrencyPrecision(currency))
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}

			ctx := cmd.Context()

			rdb, err := newCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer rdb.Close()

			provisioner := session.NewProvisioner(cfg, newProcessorClient(cfg), storage.NewWalletStore(rdb))
			data := provisioner.Render(ctx, session.Request{
				Amount:     minor,
				Currency:   currency,
				CustomerID: customerID,
				CheckoutID: uuid.NewString(),
			})

			if cfg.Checkout.Strategy == session.StrategyRender && data.SessionKey == "" {
				return fmt.Errorf("no session was created, check the logs")
			}

			out, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, string(out))
			return err
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "0", "order total as a decimal")
	cmd.Flags().StringVarP(&currency, "currency", "c", "USD", "ISO 4217 currency code")
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id used to resolve the wallet")

	return cmd
}
