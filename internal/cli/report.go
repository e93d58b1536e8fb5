package cli

import (
	"github.com/hishamali-gh/storefront/internal/notify"
	"github.com/hishamali-gh/storefront/internal/pipeline"
)

// report maps a mutation outcome to at most one user-visible notification.
// Silent local no-ops (quantity clamp, unknown line) produce nothing.
func report(n notify.Notifier, outcome pipeline.Outcome, success, failure string) {
	switch outcome.Status {
	case pipeline.StatusSuccess:
		n.Notify(notify.Success, success)

	case pipeline.StatusRejected:
		switch outcome.Reason {
		case pipeline.ReasonUnauthenticated:
			n.Notify(notify.Warning, "Please log in first!")
		case pipeline.ReasonMissingSize:
			n.Notify(notify.Error, "Please select a size first!")
		case pipeline.ReasonBusy:
			n.Notify(notify.Warning, "Please wait, a previous action is still in flight.")
		case pipeline.ReasonEmptyCart:
			n.Notify(notify.Warning, "Your cart is empty.")
		}
		// QuantityFloor and UnknownLine stay silent.

	case pipeline.StatusFailed:
		n.Notify(notify.Error, failure)
	}
}
