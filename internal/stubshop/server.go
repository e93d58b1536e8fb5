// Package stubshop is an in-memory stand-in for the remote storefront API,
// used as a local dev backend and as the server side of the engine's tests.
// It speaks the same contract the client was built against: bearer-token
// auth, cart/wishlist collections, product catalog, order creation.
package stubshop

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hishamali-gh/storefront/internal/domain"
)

// Server exposes the stub API over a chi router.
type Server struct {
	store  *Store
	logger *zap.Logger
}

func NewServer(store *Store, logger *zap.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Router builds the HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", s.listCart)
			r.Post("/", s.addCart)
			r.Patch("/{id}/", s.patchCart)
			r.Delete("/{id}/", s.deleteCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", s.listWishlist)
			r.Post("/", s.addWishlist)
			r.Delete("/{id}/", s.deleteWishlist)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.listProducts)
			r.Get("/{id}/", s.getProduct)
		})

		r.Post("/orders/", s.createOrder)
	})

	return r
}

// requireAuth accepts any non-empty bearer token. Token issuance belongs to
// the identity service the stub does not model.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if header == "" || token == header || strings.TrimSpace(token) == "" {
			respondWithError(w, http.StatusUnauthorized, "missing or malformed bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// inject applies configured failure/latency for op, reporting whether the
// handler should continue.
func (s *Server) inject(w http.ResponseWriter, op string) bool {
	fail, delay := s.store.takeInjections(op)
	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		s.logger.Debug("Injected failure", zap.String("op", op))
		respondWithError(w, http.StatusInternalServerError, "injected failure")
		return false
	}
	return true
}

// respondListing honors the configured envelope mode so clients can be
// exercised against both listing shapes.
func (s *Server) respondListing(w http.ResponseWriter, payload interface{}) {
	if s.store.envelopeEnabled() {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"items": payload})
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

func (s *Server) listCart(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpCartList) {
		return
	}
	s.respondListing(w, s.store.listCart())
}

type addCartRequest struct {
	Product  domain.ID   `json:"product"`
	Size     domain.Size `json:"size"`
	Quantity int         `json:"quantity"`
}

func (s *Server) addCart(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpCartAdd) {
		return
	}

	var req addCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Size.Valid() {
		respondWithError(w, http.StatusBadRequest, "invalid size")
		return
	}
	if req.Quantity < 1 {
		respondWithError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	line, err := s.store.addCart(req.Product, req.Size, req.Quantity)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, line)
}

type patchCartRequest struct {
	Quantity int `json:"quantity"`
}

func (s *Server) patchCart(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpCartPatch) {
		return
	}

	var req patchCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity < 1 {
		respondWithError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	line, err := s.store.patchCart(domain.ID(chi.URLParam(r, "id")), req.Quantity)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, line)
}

func (s *Server) deleteCart(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpCartDelete) {
		return
	}
	if err := s.store.deleteCart(domain.ID(chi.URLParam(r, "id"))); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWishlist(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpWishlistList) {
		return
	}
	s.respondListing(w, s.store.listWishlist())
}

type addWishlistRequest struct {
	Product domain.ID `json:"product"`
}

func (s *Server) addWishlist(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpWishlistAdd) {
		return
	}

	var req addWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.store.addWishlist(req.Product)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteWishlist(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpWishlistDelete) {
		return
	}
	if err := s.store.deleteWishlist(domain.ID(chi.URLParam(r, "id"))); err != nil {
		s.respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpProductList) {
		return
	}
	s.respondListing(w, s.store.listProducts())
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := s.store.getProduct(domain.ID(chi.URLParam(r, "id")))
	if !ok {
		respondWithError(w, http.StatusNotFound, "product not found")
		return
	}
	respondWithJSON(w, http.StatusOK, product)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	if !s.inject(w, OpOrderCreate) {
		return
	}

	// The request carries shipping details and a projected item list, but
	// the server-side cart is authoritative for what gets ordered.
	order, err := s.store.createOrder()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	s.logger.Info("Stub order created",
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.TotalPrice.String()),
	)
	respondWithJSON(w, http.StatusCreated, order)
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
