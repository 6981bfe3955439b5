// Package cart implements the write-through cart engine. The server owns the
// cart; the engine keeps a local mirror for synchronous reads. Every mutation
// goes to the backend first and the mirror is folded forward only after the
// call succeeds, so a failed call leaves the mirror untouched.
package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopsphere/client/internal/domain/cart"
	"github.com/shopsphere/client/internal/domain/catalog"
	"github.com/shopsphere/client/internal/domain/shared"
	"github.com/shopsphere/client/internal/infrastructure/gateway"
	"github.com/shopsphere/client/internal/infrastructure/storage"
	"github.com/shopsphere/client/internal/mapping"
)

// EventTypeCartChanged is published after every successful mutation.
const EventTypeCartChanged = "cart.changed"

// ChangedEvent carries the cart snapshot after a mutation.
type ChangedEvent struct {
	shared.BaseDomainEvent
	Cart *cart.Cart `json:"cart"`
}

func newChangedEvent(snapshot *cart.Cart) *ChangedEvent {
	return &ChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartChanged),
		Cart:            snapshot,
	}
}

// API is the slice of the gateway the engine needs.
type API interface {
	GetCart(ctx context.Context) (mapping.CartPayload, error)
	AddCartItem(ctx context.Context, req gateway.CartItemRequest) error
	RemoveCartItem(ctx context.Context, productID string) error
	UpdateCartQuantity(ctx context.Context, productID string, quantity int) error
	ClearCart(ctx context.Context) error
}

// Engine serializes cart mutations behind a single mutex, so two concurrent
// adds become two remote calls in sequence, each folded into the mirror in
// turn.
type Engine struct {
	api    API
	store  storage.Store
	bus    shared.EventPublisher
	logger *zap.Logger

	mu   sync.Mutex
	cart *cart.Cart
}

// NewEngine creates a cart engine with an empty mirror. store and bus may be
// nil.
func NewEngine(api API, store storage.Store, bus shared.EventPublisher, logger *zap.Logger) *Engine {
	return &Engine{
		api:    api,
		store:  store,
		bus:    bus,
		logger: logger,
		cart:   cart.New(),
	}
}

// Current returns a snapshot of the mirror without touching the network.
func (e *Engine) Current() *cart.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

// Load replaces the mirror with the server cart.
func (e *Engine) Load(ctx context.Context) (*cart.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payload, err := e.api.GetCart(ctx)
	if err != nil {
		return nil, err
	}
	mapped, err := mapping.Cart(payload)
	if err != nil {
		return nil, err
	}
	e.cart = mapped
	return e.commit(ctx), nil
}

// Add puts a product into the cart. A quantity below 1 falls back to the
// user's saved preference for the product, then to 1. A line with the same
// (product, color) key has its quantity incremented instead of a duplicate
// row appearing.
func (e *Engine) Add(ctx context.Context, product catalog.Product, colorCode string, quantity int) (*cart.Cart, error) {
	if quantity < 1 {
		quantity = defaultQuantity(product)
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	line, err := cart.NewLine(product.ID, colorCode, product.Name, image, product.DiscountedPrice(time.Now()), quantity)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.api.AddCartItem(ctx, gateway.CartItemRequest{
		ProductID: product.ID,
		ColorCode: colorCode,
		Quantity:  quantity,
	}); err != nil {
		return nil, err
	}
	e.cart.Merge(line)
	return e.commit(ctx), nil
}

// Remove drops every line for the product. Removing a product that is not in
// the cart is a no-op success, matching the backend's behavior.
func (e *Engine) Remove(ctx context.Context, productID string) (*cart.Cart, error) {
	if productID == "" {
		return nil, shared.ErrInvalidInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.api.RemoveCartItem(ctx, productID); err != nil {
		return nil, err
	}
	e.cart.RemoveProduct(productID)
	return e.commit(ctx), nil
}

// UpdateQuantity sets the quantity of an existing line. It never creates a
// line: targeting an absent product fails with cart.ErrLineNotFound before
// any remote call is made.
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, quantity int) (*cart.Cart, error) {
	if quantity < 1 {
		return nil, shared.ErrInvalidQuantity
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasProduct(productID) {
		return nil, cart.ErrLineNotFound
	}
	if err := e.api.UpdateCartQuantity(ctx, productID, quantity); err != nil {
		return nil, err
	}
	if err := e.cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return e.commit(ctx), nil
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) (*cart.Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.api.ClearCart(ctx); err != nil {
		return nil, err
	}
	e.cart.ClearLines()
	return e.commit(ctx), nil
}

func (e *Engine) hasProduct(productID string) bool {
	for _, l := range e.cart.Lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// commit persists the mirror, publishes the change, and returns a snapshot.
// Persistence and publication are best-effort: the remote call already
// succeeded, so the mutation stands. Callers must hold e.mu.
func (e *Engine) commit(ctx context.Context) *cart.Cart {
	snapshot := e.cart.Clone()

	if e.store != nil {
		if encoded, err := json.Marshal(snapshot); err == nil {
			if err := e.store.Set(ctx, storage.KeyCart, string(encoded)); err != nil && e.logger != nil {
				e.logger.Warn("failed to persist cart mirror", zap.Error(err))
			}
		}
	}
	if e.bus != nil {
		if err := e.bus.Publish(ctx, newChangedEvent(snapshot)); err != nil && e.logger != nil {
			e.logger.Warn("failed to publish cart change", zap.Error(err))
		}
	}
	return snapshot
}

func defaultQuantity(product catalog.Product) int {
	if product.Preferences != nil && product.Preferences.Quantity > 0 {
		return product.Preferences.Quantity
	}
	return 1
}
