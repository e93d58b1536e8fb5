package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/notify"
)

// NewWishlistCommand groups the wishlist operations.
func NewWishlistCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and mutate the wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWishlistList(rootOpts, cmd)
		},
	}

	cmd.AddCommand(newWishlistToggleCommand(rootOpts), newWishlistRemoveCommand(rootOpts))
	return cmd
}

func runWishlistList(rootOpts *RootOptions, cmd *cobra.Command) error {
	a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	if err := a.wishlist.Refresh(context.Background()); err != nil {
		return err
	}
	if !a.wishlist.Authenticated() {
		return fmt.Errorf("you have to sign in first")
	}

	entries := a.wishlist.Items()
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "Your wishlist is empty.")
		return nil
	}

	for _, entry := range entries {
		name := entry.Product.ID().String()
		price := "?"
		if entry.Details != nil {
			name = entry.Details.Name
			price = entry.Details.Price.StringFixed(2)
		}
		fmt.Fprintf(a.out, "%-36s %-24s %10s\n", entry.ID, name, price)
	}
	return nil
}

func newWishlistToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <product-id>",
		Short: "Add or remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			a.wishlist.Refresh(ctx)

			outcome, wishlisted := a.pipe.ToggleWishlist(ctx, domain.ID(args[0]))
			if outcome.OK() && !wishlisted {
				a.notifier.Notify(notify.Info, "Removed from wishlist!")
				return nil
			}
			report(a.notifier, outcome, "Added to wishlist!", "Wishlist action failed!")
			return nil
		},
	}
}

func newWishlistRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <entry-id>",
		Short: "Remove a wishlist entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			a.wishlist.Refresh(ctx)

			outcome := a.pipe.RemoveFromWishlist(ctx, domain.ID(args[0]))
			report(a.notifier, outcome, "Removed from wishlist!", "Wishlist action failed!")
			return nil
		},
	}
}
