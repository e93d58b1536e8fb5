package checkout_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/api"
	"github.com/hishamali-gh/storefront/internal/checkout"
	"github.com/hishamali-gh/storefront/internal/domain"
	"github.com/hishamali-gh/storefront/internal/mirror"
	"github.com/hishamali-gh/storefront/internal/pipeline"
	"github.com/hishamali-gh/storefront/internal/stubshop"
)

type env struct {
	store *stubshop.Store
	cart  *mirror.Mirror[domain.CartLine]
	orch  *checkout.Orchestrator
}

// newEnv seeds the fixture cart: 2 x product A (500) size M, 1 x product B
// (300) size L, surcharge 99.
func newEnv(t *testing.T, seedCart bool) *env {
	t.Helper()

	store := stubshop.NewStore(decimal.NewFromInt(99))
	store.Seed(
		&domain.Product{ID: "pa", Name: "Product A", Price: decimal.NewFromInt(500)},
		&domain.Product{ID: "pb", Name: "Product B", Price: decimal.NewFromInt(300)},
	)
	if seedCart {
		store.SeedCart("pa", domain.SizeM, 2)
		store.SeedCart("pb", domain.SizeL, 1)
	}

	server := httptest.NewServer(stubshop.NewServer(store, zap.NewNop()).Router())
	t.Cleanup(server.Close)

	creds := &api.TokenStore{}
	creds.Set("test-token")
	client := api.NewClient(server.URL, creds, 0, zap.NewNop())

	cart := mirror.NewCart(client, zap.NewNop())
	require.NoError(t, cart.Refresh(context.Background()))

	orch := checkout.New(client, cart, pipeline.NewGate(), decimal.NewFromInt(99), zap.NewNop())
	return &env{store: store, cart: cart, orch: orch}
}

func validForm() domain.ShippingForm {
	return domain.ShippingForm{
		Name:       "Asha Rao",
		Address:    "12 Mill Road",
		City:       "Pune",
		PostalCode: "411001",
		Phone:      "9876543210",
	}
}

func TestOpenRejectsEmptyCart(t *testing.T) {
	e := newEnv(t, false)

	err := e.orch.Open()
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, checkout.StateIdle, e.orch.State())
}

func TestOpenWithItems(t *testing.T) {
	e := newEnv(t, true)

	require.NoError(t, e.orch.Open())
	assert.Equal(t, checkout.StateFormOpen, e.orch.State())
}

func TestValidationSingleMissingField(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())

	form := validForm()
	form.Phone = ""
	e.orch.SetForm(form)

	outcome := e.orch.Submit(context.Background())
	assert.Equal(t, pipeline.StatusRejected, outcome.Status)
	assert.Equal(t, pipeline.ReasonValidation, outcome.Reason)

	errs := e.orch.FieldErrors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "phone")

	assert.Equal(t, checkout.StateFormOpen, e.orch.State(), "Submitting is never entered")
	assert.Empty(t, e.store.Orders())
}

func TestValidationAllFieldsEmpty(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(domain.ShippingForm{})

	outcome := e.orch.Submit(context.Background())
	assert.Equal(t, pipeline.ReasonValidation, outcome.Reason)

	errs := e.orch.FieldErrors()
	assert.Len(t, errs, 5)
	for _, field := range []string{"name", "address", "city", "postalCode", "phone"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidationRejectsWhitespaceOnlyFields(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())

	form := validForm()
	form.City = "   "
	e.orch.SetForm(form)

	outcome := e.orch.Submit(context.Background())
	assert.Equal(t, pipeline.ReasonValidation, outcome.Reason)
	assert.Contains(t, e.orch.FieldErrors(), "city")
}

func TestProjectedTotal(t *testing.T) {
	e := newEnv(t, true)

	// (500 x 2) + (300 x 1) + 99
	assert.True(t, e.orch.ProjectedTotal().Equal(decimal.NewFromInt(1499)),
		"got %s", e.orch.ProjectedTotal())
}

func TestSubmitSuccess(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(validForm())

	outcome := e.orch.Submit(context.Background())
	require.True(t, outcome.OK(), "outcome: %s", outcome)

	assert.Equal(t, checkout.StateCompleted, e.orch.State())
	assert.Equal(t, 0, e.cart.Len(), "local cart cleared on acceptance")
	assert.Equal(t, domain.ShippingForm{}, e.orch.Form(), "shipping form reset")

	orders := e.store.Orders()
	require.Len(t, orders, 1)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(1499)))

	order, ok := e.orch.Order()
	require.True(t, ok)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Len(t, order.Items, 2)
}

func TestSubmitRemoteFailureKeepsFormOpen(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(validForm())

	e.store.FailOnce(stubshop.OpOrderCreate)
	outcome := e.orch.Submit(context.Background())

	assert.Equal(t, pipeline.StatusFailed, outcome.Status)
	assert.Equal(t, checkout.StateFormOpen, e.orch.State())
	assert.Equal(t, validForm(), e.orch.Form(), "entered values intact after transport failure")
	assert.Empty(t, e.orch.FieldErrors(), "transport failure is not a validation error")
	assert.Empty(t, e.store.Orders())
	assert.Equal(t, 2, e.cart.Len(), "cart untouched")
}

func TestDoubleSubmitCreatesOneOrder(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(validForm())

	e.store.SetDelay(stubshop.OpOrderCreate, 150*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	var first pipeline.Outcome
	go func() {
		defer wg.Done()
		first = e.orch.Submit(context.Background())
	}()

	time.Sleep(30 * time.Millisecond)
	second := e.orch.Submit(context.Background())
	assert.Equal(t, pipeline.StatusRejected, second.Status)
	assert.Equal(t, pipeline.ReasonBusy, second.Reason)

	wg.Wait()
	require.True(t, first.OK())
	assert.Len(t, e.store.Orders(), 1, "exactly one order, not two")
}

func TestSubmitUsesSnapshotAtSubmitTime(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())

	// The cart changes while the form is open.
	e.store.SeedCart("pa", domain.SizeL, 1)
	require.NoError(t, e.cart.Refresh(context.Background()))

	e.orch.SetForm(validForm())
	outcome := e.orch.Submit(context.Background())
	require.True(t, outcome.OK())

	order, ok := e.orch.Order()
	require.True(t, ok)
	assert.Len(t, order.Items, 3, "submission reflects the cart at submit time, not form-open time")
}

func TestCancelResetsForm(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(validForm())

	e.orch.Cancel()
	assert.Equal(t, checkout.StateIdle, e.orch.State())
	assert.Equal(t, domain.ShippingForm{}, e.orch.Form())
}

func TestSubmitWithEmptiedCartRejected(t *testing.T) {
	e := newEnv(t, true)
	require.NoError(t, e.orch.Open())
	e.orch.SetForm(validForm())

	e.cart.Clear()
	outcome := e.orch.Submit(context.Background())
	assert.Equal(t, pipeline.ReasonEmptyCart, outcome.Reason)
	assert.Empty(t, e.store.Orders())
}
