package stubshop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hishamali-gh/storefront/internal/domain"
)

// Operation names for failure and latency injection.
const (
	OpCartList       = "cart.list"
	OpCartAdd        = "cart.add"
	OpCartPatch      = "cart.patch"
	OpCartDelete     = "cart.delete"
	OpWishlistList   = "wishlist.list"
	OpWishlistAdd    = "wishlist.add"
	OpWishlistDelete = "wishlist.delete"
	OpProductList    = "product.list"
	OpOrderCreate    = "order.create"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

type cartRecord struct {
	ID        domain.ID
	ProductID domain.ID
	Size      domain.Size
	Quantity  int
}

type wishRecord struct {
	ID        domain.ID
	ProductID domain.ID
}

// Store is the in-memory state behind the stub storefront API. It stands in
// for the remote collaborator, so it deliberately has no persistence.
type Store struct {
	mu        sync.Mutex
	products  []*domain.Product
	cart      []cartRecord
	wishlist  []wishRecord
	orders    []domain.Order
	surcharge decimal.Decimal
	envelope  bool
	failures  map[string]int
	delays    map[string]time.Duration
}

func NewStore(surcharge decimal.Decimal) *Store {
	return &Store{
		surcharge: surcharge,
		failures:  make(map[string]int),
		delays:    make(map[string]time.Duration),
	}
}

// SetEnvelope switches collection listings between a bare JSON array and the
// {"items": [...]} container shape.
func (s *Store) SetEnvelope(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envelope = on
}

// FailOnce makes the next request for op answer 500.
func (s *Store) FailOnce(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op]++
}

// SetDelay makes every request for op sleep before answering.
func (s *Store) SetDelay(op string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[op] = d
}

// takeInjections consumes one pending failure for op and returns the
// configured delay. The delay is applied outside the store lock.
func (s *Store) takeInjections(op string) (fail bool, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures[op] > 0 {
		s.failures[op]--
		fail = true
	}
	return fail, s.delays[op]
}

// Seed adds products to the catalog.
func (s *Store) Seed(products ...*domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, products...)
}

// SeedCart inserts a cart line directly, bypassing the API.
func (s *Store) SeedCart(productID domain.ID, size domain.Size, quantity int) domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ID(uuid.NewString())
	s.cart = append(s.cart, cartRecord{ID: id, ProductID: productID, Size: size, Quantity: quantity})
	return id
}

// SeedWishlist inserts a wishlist entry directly, bypassing the API.
func (s *Store) SeedWishlist(productID domain.ID) domain.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ID(uuid.NewString())
	s.wishlist = append(s.wishlist, wishRecord{ID: id, ProductID: productID})
	return id
}

// Orders returns all orders created so far.
func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Order(nil), s.orders...)
}

// CartSize returns the number of server-side cart lines.
func (s *Store) CartSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cart)
}

func (s *Store) envelopeEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.envelope
}

func (s *Store) getProduct(id domain.ID) (*domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product(id)
}

func (s *Store) product(id domain.ID) (*domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (s *Store) listProducts() []*domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Product(nil), s.products...)
}

func (s *Store) listCart() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]domain.CartLine, 0, len(s.cart))
	for _, rec := range s.cart {
		lines = append(lines, s.cartLine(rec))
	}
	return lines
}

func (s *Store) cartLine(rec cartRecord) domain.CartLine {
	line := domain.CartLine{ID: rec.ID, Size: rec.Size, Quantity: rec.Quantity}
	if product, ok := s.product(rec.ProductID); ok {
		line.Product = domain.Embed(product)
	} else {
		line.Product = domain.Ref(rec.ProductID)
	}
	return line
}

func (s *Store) addCart(productID domain.ID, size domain.Size, quantity int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.product(productID); !ok {
		return domain.CartLine{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	for _, rec := range s.cart {
		if rec.ProductID == productID && rec.Size == size {
			return domain.CartLine{}, fmt.Errorf("cart line for (%s, %s): %w", productID, size, ErrDuplicate)
		}
	}
	rec := cartRecord{ID: domain.ID(uuid.NewString()), ProductID: productID, Size: size, Quantity: quantity}
	s.cart = append(s.cart, rec)
	return s.cartLine(rec), nil
}

func (s *Store) patchCart(id domain.ID, quantity int) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.cart {
		if rec.ID == id {
			s.cart[i].Quantity = quantity
			return s.cartLine(s.cart[i]), nil
		}
	}
	return domain.CartLine{}, fmt.Errorf("cart line %s: %w", id, ErrNotFound)
}

func (s *Store) deleteCart(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.cart {
		if rec.ID == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cart line %s: %w", id, ErrNotFound)
}

func (s *Store) listWishlist() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.WishlistEntry, 0, len(s.wishlist))
	for _, rec := range s.wishlist {
		entry := domain.WishlistEntry{ID: rec.ID, Product: domain.Ref(rec.ProductID)}
		if product, ok := s.product(rec.ProductID); ok {
			entry.Details = product
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *Store) addWishlist(productID domain.ID) (domain.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.product(productID); !ok {
		return domain.WishlistEntry{}, fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	for _, rec := range s.wishlist {
		if rec.ProductID == productID {
			return domain.WishlistEntry{}, fmt.Errorf("wishlist entry for %s: %w", productID, ErrDuplicate)
		}
	}
	rec := wishRecord{ID: domain.ID(uuid.NewString()), ProductID: productID}
	s.wishlist = append(s.wishlist, rec)
	return domain.WishlistEntry{ID: rec.ID, Product: domain.Ref(rec.ProductID)}, nil
}

func (s *Store) deleteWishlist(id domain.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.wishlist {
		if rec.ID == id {
			s.wishlist = append(s.wishlist[:i], s.wishlist[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("wishlist entry %s: %w", id, ErrNotFound)
}

// createOrder builds an order from the server-side cart, computes the
// binding total, clears the cart, and stores the order.
func (s *Store) createOrder() (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return domain.Order{}, fmt.Errorf("cart: %w", ErrNotFound)
	}

	order := domain.Order{
		ID:     domain.ID(uuid.NewString()),
		Status: domain.OrderPending,
	}
	total := s.surcharge
	for _, rec := range s.cart {
		item := domain.OrderItem{ProductID: rec.ProductID, Quantity: rec.Quantity}
		if product, ok := s.product(rec.ProductID); ok {
			item.Price = product.Price
			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(rec.Quantity))))
		}
		order.Items = append(order.Items, item)
	}
	order.TotalPrice = total

	s.cart = nil
	s.orders = append(s.orders, order)
	return order, nil
}
