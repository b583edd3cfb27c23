// Package cart owns the persisted cart state machine: a pure transition
// function over tagged actions, wrapped by a store that writes through to
// durable storage after every applied mutation.
package cart

import (
	"math"

	"github.com/estorelabs/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Identity is the product id; quantity is always > 0.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category,omitempty"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// State holds the cart lines and their recomputed total. Items are unique by
// id; Total always equals Σ price·quantity over Items.
type State struct {
	Items []Item
	Total decimal.Decimal
}

// NewState returns an empty cart state.
func NewState() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// Action is a tagged cart mutation. Validation lives inside Reduce so an
// invalid action is provably a no-op.
type Action interface {
	isCartAction()
}

// AddItem appends the product with quantity 1, or increments an existing line.
type AddItem struct {
	Product catalog.Product
}

// RemoveItem drops the line with the given id; absent ids are a no-op.
type RemoveItem struct {
	ID int64
}

// SetQuantity replaces a line's quantity; zero or negative drops the line.
type SetQuantity struct {
	ID       int64
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isCartAction()     {}
func (RemoveItem) isCartAction()  {}
func (SetQuantity) isCartAction() {}
func (Clear) isCartAction()       {}

// Reduce applies the action to the state and reports whether it was applied.
// Rejected actions leave the state untouched.
func Reduce(state State, action Action) (State, bool) {
	switch a := action.(type) {
	case AddItem:
		if a.Product.ID == 0 || a.Product.Price < 0 {
			return state, false
		}
		items := cloneItems(state.Items)
		found := false
		for i := range items {
			if items[i].ID == a.Product.ID {
				items[i].Quantity++
				found = true
				break
			}
		}
		if !found {
			items = append(items, Item{
				ID:          a.Product.ID,
				Name:        a.Product.Name,
				Price:       a.Product.Price,
				Quantity:    1,
				Category:    a.Product.Category,
				Image:       a.Product.Image,
				Description: a.Product.Description,
			})
		}
		return State{Items: items, Total: computeTotal(items)}, true

	case RemoveItem:
		items := make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != a.ID {
				items = append(items, item)
			}
		}
		return State{Items: items, Total: computeTotal(items)}, true

	case SetQuantity:
		found := false
		items := make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID == a.ID {
				found = true
				if a.Quantity <= 0 {
					continue
				}
				item.Quantity = a.Quantity
			}
			items = append(items, item)
		}
		if !found {
			return state, false
		}
		return State{Items: items, Total: computeTotal(items)}, true

	case Clear:
		return NewState(), true

	default:
		return state, false
	}
}

// computeTotal recomputes Σ price·quantity from scratch. Totals are never
// drifted incrementally.
func computeTotal(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

func cloneItems(items []Item) []Item {
	cloned := make([]Item, len(items))
	copy(cloned, items)
	return cloned
}

// validQuantity reports whether a persisted quantity is a positive integer.
func validQuantity(q float64) bool {
	return q > 0 && q == math.Trunc(q)
}
