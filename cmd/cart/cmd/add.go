package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/domain/cart"
)

func newAddCmd() *cobra.Command {
	var name, price, image string

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product",
		Long: `Add one unit of a product to the cart. Adding a product that is already
in the cart increases its quantity by one.

Example:
  cart add p1 --name Widget --price 9.99 --image https://shop.example/widget.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)

			product := cart.Product{
				ID:    args[0],
				Name:  name,
				Image: image,
			}
			if price != "" {
				amount, err := decimal.NewFromString(price)
				if err != nil {
					return fmt.Errorf("invalid price %q: %w", price, err)
				}
				if amount.IsNegative() {
					return fmt.Errorf("invalid price %q: must not be negative", price)
				}
				product.Price = amount
			}

			a.report(a.store.AddItem(cmd.Context(), product))
			return a.binder.Render()
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&price, "price", "", "unit price, e.g. 9.99")
	cmd.Flags().StringVar(&image, "image", "", "product image URL")

	return cmd
}
