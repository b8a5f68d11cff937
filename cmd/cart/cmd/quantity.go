package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/your-org/storefront/internal/interfaces/cartview"
)

// dispatch applies a control event and reports save failures without failing
func dispatch(cmd *cobra.Command, event cartview.Event) error {
	a := appFrom(cmd)

	err := a.binder.Dispatch(cmd.Context(), event)
	if errors.Is(err, cartview.ErrUnknownAction) {
		return err
	}
	a.report(err)
	return nil
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, cartview.Event{Action: cartview.ActionRemove, ItemID: args[0]})
		},
	}
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a product",
		Long: `Set the quantity of a product in the cart. Zero or a negative quantity
removes the product; input that is not a number is ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, cartview.Event{Action: cartview.ActionSetQuantity, ItemID: args[0], Value: args[1]})
		},
	}
}

func newIncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inc <product-id>",
		Short: "Increase the quantity of a product by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, cartview.Event{Action: cartview.ActionIncrement, ItemID: args[0]})
		},
	}
}

func newDecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dec <product-id>",
		Short: "Decrease the quantity of a product by one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, cartview.Event{Action: cartview.ActionDecrement, ItemID: args[0]})
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			a.report(a.store.Clear(cmd.Context()))
			return a.binder.Render()
		},
	}
}
