package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hishamali-gh/storefront/internal/derive"
	"github.com/hishamali-gh/storefront/internal/domain"
)

// NewCartCommand groups the cart operations.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and mutate the shopping cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCartList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(
		newCartAddCommand(rootOpts),
		newCartRemoveCommand(rootOpts),
		newCartQuantityCommand(rootOpts),
	)
	return cmd
}

func runCartList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.cart.Refresh(context.Background()); err != nil {
		return err
	}
	if !a.cart.Authenticated() {
		return fmt.Errorf("you have to sign in first")
	}

	lines := a.cart.Items()
	if len(lines) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}

	for _, line := range lines {
		name := line.Product.ID().String()
		price := "?"
		if product, ok := line.Product.Product(); ok {
			name = product.Name
			price = product.Price.StringFixed(2)
		}
		fmt.Fprintf(a.out, "%-36s %-24s size %-3s x%-3d %10s\n", line.ID, name, line.Size, line.Quantity, price)
	}

	subtotal := derive.CartSubtotal(lines)
	fmt.Fprintf(a.out, "subtotal %s + shipping %s = %s\n",
		subtotal.StringFixed(2),
		a.cfg.Shop.ShippingSurcharge.StringFixed(2),
		subtotal.Add(a.cfg.Shop.ShippingSurcharge).StringFixed(2),
	)
	return nil
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		sizeFlag string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			size := domain.Size("")
			if sizeFlag != "" {
				size, err = domain.ParseSize(sizeFlag)
				if err != nil {
					return err
				}
			}

			// Re-add detection needs the current snapshot.
			a.cart.Refresh(ctx)

			outcome := a.pipe.AddToCart(ctx, domain.ID(args[0]), size, quantity)
			report(a.notifier, outcome, "Added to cart!", "Cart action failed!")
			return nil
		},
	}

	cmd.Flags().StringVar(&sizeFlag, "size", "", "size (XS, S, M, L, XL)")
	cmd.Flags().IntVar(&quantity, "qty", 1, "quantity")
	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <line-id>",
		Short: "Remove a cart line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			a.cart.Refresh(ctx)

			outcome := a.pipe.RemoveFromCart(ctx, domain.ID(args[0]))
			report(a.notifier, outcome, "Item removed from cart!", "Failed to remove item!")
			return nil
		},
	}
}

func newCartQuantityCommand(rootOpts *RootOptions) *cobra.Command {
	var delta int

	cmd := &cobra.Command{
		Use:   "qty <line-id>",
		Short: "Adjust a cart line's quantity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			a.cart.Refresh(ctx)

			outcome := a.pipe.AdjustQuantity(ctx, domain.ID(args[0]), delta)
			report(a.notifier, outcome, "Quantity updated!", "Failed to update quantity!")
			return nil
		},
	}

	cmd.Flags().IntVar(&delta, "delta", 1, "quantity change, may be negative")
	return cmd
}
