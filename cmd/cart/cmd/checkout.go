package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/pkg/storefront"
)

func newCheckoutCmd() *cobra.Command {
	var showDetails bool

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start payment for the cart",
		Long: `Send the cart to the storefront server and print the payment page URL.
The cart is kept; it is up to the success page to clear it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			client := storefront.NewClient(a.cfg.Client.ServerURL, nil)

			url, err := client.CreateCheckoutSession(cmd.Context(), storefront.ItemsFromCart(a.store.Items()))
			if err != nil {
				var apiErr *storefront.APIError
				if errors.As(err, &apiErr) && showDetails && apiErr.Details != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), apiErr.Details)
				}
				return fmt.Errorf("checkout failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Continue to payment: %s\n", url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showDetails, "details", false, "print server diagnostics on failure")

	return cmd
}
