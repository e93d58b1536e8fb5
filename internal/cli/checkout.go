package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/notify"
	"github.com/hishamali-gh/storefront/internal/pipeline"
)

// NewCheckoutCommand submits an order from the current cart.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var form domain.ShippingForm

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order from the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := newApp(rootOpts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()
			ctx := context.Background()

			if err := a.cart.Refresh(ctx); err != nil {
				a.notifier.Notify(notify.Error, "Could not load your cart, please retry.")
				return err
			}
			if !a.cart.Authenticated() {
				return fmt.Errorf("you have to sign in first")
			}

			if err := a.orch.Open(); err != nil {
				a.notifier.Notify(notify.Warning, "Your cart is empty.")
				return nil
			}
			a.orch.SetForm(form)

			fmt.Fprintf(a.out, "Order total: %s\n", a.orch.ProjectedTotal().StringFixed(2))

			outcome := a.orch.Submit(ctx)
			switch {
			case outcome.OK():
				order, _ := a.orch.Order()
				a.notifier.Notify(notify.Success, "Order placed successfully!")
				fmt.Fprintf(a.out, "order %s  status %s  total %s\n", order.ID, order.Status, order.TotalPrice.StringFixed(2))

			case outcome.Reason == pipeline.ReasonValidation:
				a.notifier.Notify(notify.Warning, "Fill all required fields!")
				printFieldErrors(a, a.orch.FieldErrors())

			default:
				report(a.notifier, outcome, "", "Checkout failed!")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "recipient name")
	cmd.Flags().StringVar(&form.Address, "address", "", "street address")
	cmd.Flags().StringVar(&form.City, "city", "", "city")
	cmd.Flags().StringVar(&form.PostalCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "phone number")
	return cmd
}

// printFieldErrors renders per-field messages inline, one per field, in a
// stable order.
func printFieldErrors(a *app, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", field, errs[field])
	}
}
