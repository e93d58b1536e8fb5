package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hishamali-gh/storefront/internal/derive"
	"github.com/hishamali-gh/storefront/internal/domain"
)

// NewBrowseCommand lists the catalog.
func NewBrowseCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			var page domain.Collection[domain.Product]
			if err := a.client.Get(context.Background(), "/products/", &page); err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}

			for _, p := range page.Items {
				if category != "" && p.Category != category {
					continue
				}
				fmt.Fprintf(a.out, "%-6s %-24s %10s  %s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Category)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (men, women, kids)")
	return cmd
}

// NewShowCommand prints one product with cart/wishlist membership facts.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <product-id>",
		Short: "Show a product and its cart/wishlist status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			var product domain.Product
			if err := a.client.Get(ctx, "/products/"+args[0]+"/", &product); err != nil {
				return fmt.Errorf("failed to load product %s: %w", args[0], err)
			}

			fmt.Fprintf(a.out, "%s - %s\n", product.Name, product.Price.StringFixed(2))
			if product.Description != "" {
				fmt.Fprintln(a.out, product.Description)
			}
			if url, ok := product.ImageURL(); ok {
				fmt.Fprintln(a.out, url)
			}

			// Membership facts need the mirrors; refresh failures degrade to
			// last-known rather than hiding the product.
			a.cart.Refresh(ctx)
			a.wishlist.Refresh(ctx)
			printMembership(a, product.ID)
			return nil
		},
	}
}

func printMembership(a *app, productID domain.ID) {
	fmt.Fprintf(a.out, "wishlisted: %v\n", derive.Wishlisted(a.wishlist.Items(), productID))

	lines := a.cart.Items()
	for _, size := range domain.Sizes() {
		if line, ok := derive.FindCartLine(lines, derive.CartKey{ProductID: productID, Size: size}); ok {
			fmt.Fprintf(a.out, "in cart: size %s x%d (line %s)\n", line.Size, line.Quantity, line.ID)
		}
	}
}
