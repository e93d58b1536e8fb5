// Package checkout drives the flow from cart contents to a submitted order:
// Idle -> FormOpen -> Validating -> Submitting -> Completed, with validation
// failures returning to FormOpen carrying a field-keyed error map.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/derive"
	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/mirror"
	"github.com/hishamali-gh/storefront/internal/pipeline"
)

// State is the orchestrator's position in the checkout flow.
type State int

const (
	StateIdle State = iota
	StateFormOpen
	StateValidating
	StateSubmitting
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFormOpen:
		return "form_open"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// ErrEmptyCart rejects opening checkout over an empty cart mirror.
var ErrEmptyCart = errors.New("cart is empty")

const submitKey = "checkout"

// Orchestrator runs one checkout attempt at a time over the cart mirror.
type Orchestrator struct {
	client    *api.Client
	cart      *mirror.Mirror[domain.CartLine]
	gate      *pipeline.Gate
	validate  *validator.Validate
	surcharge decimal.Decimal
	logger    *zap.Logger

	mu          sync.Mutex
	state       State
	form        domain.ShippingForm
	fieldErrors map[string]string
	lastOrder   *domain.Order
}

func New(
	client *api.Client,
	cart *mirror.Mirror[domain.CartLine],
	gate *pipeline.Gate,
	surcharge decimal.Decimal,
	logger *zap.Logger,
) *Orchestrator {
	v := validator.New()
	// notblank = required and non-whitespace after trimming.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &Orchestrator{
		client:    client,
		cart:      cart,
		gate:      gate,
		validate:  v,
		surcharge: surcharge,
		logger:    logger,
		state:     StateIdle,
	}
}

// State returns the current machine state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Open moves Idle -> FormOpen with a fresh form. Opening over an empty cart
// mirror is rejected.
func (o *Orchestrator) Open() error {
	if o.cart.Len() == 0 {
		return ErrEmptyCart
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateFormOpen
	o.form.Reset()
	o.fieldErrors = nil
	return nil
}

// Cancel destroys the form and returns to Idle.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.form.Reset()
	o.fieldErrors = nil
	o.state = StateIdle
}

// SetForm replaces the shipping details. Entered values survive a failed
// submission; only success or Cancel clears them.
func (o *Orchestrator) SetForm(form domain.ShippingForm) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.form = form
}

// Form returns a copy of the entered shipping details.
func (o *Orchestrator) Form() domain.ShippingForm {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// FieldErrors returns the per-field messages from the last validation run.
func (o *Orchestrator) FieldErrors() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	errs := make(map[string]string, len(o.fieldErrors))
	for k, v := range o.fieldErrors {
		errs[k] = v
	}
	return errs
}

// Order returns the order created by the last successful submission.
func (o *Orchestrator) Order() (*domain.Order, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastOrder, o.lastOrder != nil
}

// ProjectedTotal is the client-side projection shown before submission:
// sum(price x quantity) plus the shipping surcharge. The server-computed
// total on the returned order is the binding one.
func (o *Orchestrator) ProjectedTotal() decimal.Decimal {
	return derive.CartSubtotal(o.cart.Items()).Add(o.surcharge)
}

type orderRequest struct {
	ShippingDetails domain.ShippingForm `json:"shipping_details"`
	Items           []orderRequestItem  `json:"items"`
}

type orderRequestItem struct {
	ProductID domain.ID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Submit validates the form and, if clean, submits an order built from the
// cart snapshot taken now, not at form-open time, so items changed while
// the form was open are what actually gets ordered. A submit while another
// is in flight is rejected Busy; validation errors return the machine to
// FormOpen without entering Submitting.
func (o *Orchestrator) Submit(ctx context.Context) pipeline.Outcome {
	if !o.gate.TryAcquire(submitKey) {
		return pipeline.Rejected(pipeline.ReasonBusy)
	}
	defer o.gate.Release(submitKey)

	o.mu.Lock()
	o.state = StateValidating
	form := o.form
	o.mu.Unlock()

	fieldErrors := o.runValidation(form)
	if len(fieldErrors) > 0 {
		o.mu.Lock()
		o.fieldErrors = fieldErrors
		o.state = StateFormOpen
		o.mu.Unlock()
		return pipeline.Rejected(pipeline.ReasonValidation)
	}

	lines, _ := o.cart.Snapshot()
	if len(lines) == 0 {
		o.mu.Lock()
		o.fieldErrors = nil
		o.state = StateFormOpen
		o.mu.Unlock()
		return pipeline.Rejected(pipeline.ReasonEmptyCart)
	}

	o.mu.Lock()
	o.fieldErrors = nil
	o.state = StateSubmitting
	o.mu.Unlock()

	payload := orderRequest{ShippingDetails: form}
	for _, line := range lines {
		item := orderRequestItem{ProductID: line.Product.ID(), Quantity: line.Quantity}
		if product, ok := line.Product.Product(); ok {
			item.Price = product.Price
		}
		payload.Items = append(payload.Items, item)
	}

	var order domain.Order
	if err := o.client.Post(ctx, "/orders/", payload, &order); err != nil {
		// Transport failure, not a validation error: the form stays open
		// with the entered values intact.
		o.mu.Lock()
		o.state = StateFormOpen
		o.mu.Unlock()
		if errors.Is(err, api.ErrUnauthenticated) {
			return pipeline.Rejected(pipeline.ReasonUnauthenticated)
		}
		o.logger.Warn("Order submission failed", zap.Error(err))
		return pipeline.Failed(err)
	}

	o.cart.Clear()

	o.mu.Lock()
	o.form.Reset()
	o.lastOrder = &order
	o.state = StateCompleted
	o.mu.Unlock()

	o.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("status", string(order.Status)),
		zap.String("total", order.TotalPrice.String()),
	)
	return pipeline.Success()
}

// runValidation checks all five required fields independently and returns a
// field-keyed error map; it never short-circuits on the first failure.
func (o *Orchestrator) runValidation(form domain.ShippingForm) map[string]string {
	err := o.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"form": err.Error()}
	}

	fieldErrors := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = fmt.Sprintf("%s is required", fe.Field())
	}
	return fieldErrors
}
