package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/estorelabs/storefront/internal/storage"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
	"github.com/estorelabs/storefront/pkg/logger"
	"github.com/estorelabs/storefront/pkg/metrics"
)

// Store materializes cart state from durable storage and re-persists it after
// every applied mutation. Persistence failures are logged, never surfaced:
// the in-memory state stays authoritative for the session.
type Store struct {
	mu      sync.Mutex
	state   State
	storage storage.Store
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewStore builds a cart store over the provided persistence backend.
// Metrics may be nil.
func NewStore(backend storage.Store, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		state:   NewState(),
		storage: backend,
		logg:    logg,
		metrics: cartMetrics,
	}, nil
}

// persistedItem decodes one stored cart entry loosely so a single malformed
// record never poisons the rest.
type persistedItem struct {
	ID          *int64   `json:"id"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *float64 `json:"quantity"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
}

func (p persistedItem) valid() bool {
	return p.ID != nil &&
		p.Price != nil && *p.Price >= 0 &&
		p.Quantity != nil && validQuantity(*p.Quantity)
}

// Initialize loads the persisted item list, dropping entries without a
// defined identity, a numeric non-negative price, or a positive integer
// quantity. A missing, corrupt, or non-array record yields an empty cart.
// Initialize never fails.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewState()

	raw, err := s.storage.Get(ctx, storage.KeyCartItems)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart: could not read persisted items")
		}
		return
	}

	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logg.Warn(ctx, "cart: persisted record is not an array, starting empty")
		return
	}

	items := make([]Item, 0, len(entries))
	dropped := 0
	for _, entry := range entries {
		var p persistedItem
		if err := json.Unmarshal(entry, &p); err != nil || !p.valid() {
			dropped++
			continue
		}
		if containsID(items, *p.ID) {
			dropped++
			continue
		}
		items = append(items, Item{
			ID:          *p.ID,
			Name:        p.Name,
			Price:       *p.Price,
			Quantity:    int(*p.Quantity),
			Category:    p.Category,
			Image:       p.Image,
			Description: p.Description,
		})
	}

	if dropped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "dropped", dropped), "cart: dropped invalid persisted entries")
		s.metrics.AddDropped(dropped)
	}

	s.state = State{Items: items, Total: computeTotal(items)}
}

// AddItem adds the product to the cart. Products without an identity or with
// a negative price are rejected without any state change.
func (s *Store) AddItem(ctx context.Context, product catalog.Product) {
	s.apply(ctx, "add_item", AddItem{Product: product})
}

// RemoveItem drops the line with the given id; a no-op if absent.
func (s *Store) RemoveItem(ctx context.Context, id int64) {
	s.apply(ctx, "remove_item", RemoveItem{ID: id})
}

// SetQuantity replaces a line's quantity; quantities ≤ 0 drop the line.
func (s *Store) SetQuantity(ctx context.Context, id int64, quantity int) {
	s.apply(ctx, "set_quantity", SetQuantity{ID: id, Quantity: quantity})
}

// Clear empties the cart and erases the persisted record entirely, so stale
// keys never linger.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state, _ = Reduce(s.state, Clear{})
	s.metrics.IncMutation("clear")
	if err := s.storage.Remove(ctx, storage.KeyCartItems); err != nil {
		s.logg.Error(ctx, "cart: could not erase persisted record", err)
		return err
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Items: cloneItems(s.state.Items), Total: s.state.Total}
}

func (s *Store) apply(ctx context.Context, name string, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := Reduce(s.state, action)
	if !applied {
		rejection := pkgerrors.New(pkgerrors.CodeLogic, fmt.Sprintf("cart: rejected %s", name))
		s.logg.Warn(s.logg.WithField(ctx, "action", name), rejection.Error())
		return
	}
	s.state = next
	s.metrics.IncMutation(name)
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	encoded, err := json.Marshal(s.state.Items)
	if err != nil {
		s.logg.Error(ctx, "cart: could not encode items", err)
		return
	}
	if err := s.storage.Set(ctx, storage.KeyCartItems, string(encoded)); err != nil {
		s.logg.Error(ctx, "cart: could not persist items", err)
	}
}

func containsID(items []Item, id int64) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
