// Package mockcatalog is the in-memory backing store for the development
// catalog server. It stands in for the hosted catalog during local work.
package mockcatalog

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/estorelabs/storefront/internal/catalog"
	pkgerrors "github.com/estorelabs/storefront/pkg/errors"
)

// Repo holds products, categories, and received orders behind one mutex.
type Repo struct {
	mu sync.RWMutex

	products   map[int64]catalog.Product
	categories map[int64]catalog.Category
	orders     []catalog.Order

	nextProductID  int64
	nextCategoryID int64
}

func NewRepo() *Repo {
	return &Repo{
		products:       map[int64]catalog.Product{},
		categories:     map[int64]catalog.Category{},
		nextProductID:  1,
		nextCategoryID: 1,
	}
}

// NewSeededRepo returns a repo preloaded with a small demo catalog.
func NewSeededRepo() *Repo {
	r := NewRepo()
	for _, c := range []string{"Phones", "Laptops", "Audio", "Accessories"} {
		r.CreateCategory(catalog.Category{Name: c})
	}
	for _, p := range []catalog.Product{
		{Name: "Nebula X1", Price: 699.99, Category: "Phones", Description: "6.4in OLED, 128GB"},
		{Name: "Nebula X1 Pro", Price: 899.99, Category: "Phones", Description: "6.7in OLED, 256GB"},
		{Name: "Comet SE", Price: 349.00, Category: "Phones", Description: "Budget 5G handset"},
		{Name: "Aurora 14", Price: 1199.00, Category: "Laptops", Description: "14in ultrabook, 16GB RAM"},
		{Name: "Aurora 16 Studio", Price: 1999.00, Category: "Laptops", Description: "16in creator laptop"},
		{Name: "Pulse Buds", Price: 79.99, Category: "Audio", Description: "Wireless earbuds, ANC"},
		{Name: "Pulse Over-Ear", Price: 199.99, Category: "Audio", Description: "Studio headphones"},
		{Name: "Volt 65W Charger", Price: 39.99, Category: "Accessories", Description: "GaN USB-C charger"},
		{Name: "Nebula Case", Price: 19.99, Category: "Accessories", Description: "Shock-absorbing case"},
	} {
		r.CreateProduct(p)
	}
	return r
}

// ListProducts returns every product, optionally restricted to one category.
// The filter is an exact match; an empty category means no filter.
func (r *Repo) ListProducts(category string) []catalog.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) GetProduct(id int64) (catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (r *Repo) CreateProduct(p catalog.Product) catalog.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextProductID
	r.nextProductID++
	r.products[p.ID] = p
	return p
}

func (r *Repo) UpdateProduct(id int64, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return catalog.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	p.ID = id
	r.products[id] = p
	return p, nil
}

func (r *Repo) DeleteProduct(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	delete(r.products, id)
	return nil
}

func (r *Repo) ListCategories() []catalog.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) CreateCategory(c catalog.Category) catalog.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.nextCategoryID
	r.nextCategoryID++
	r.categories[c.ID] = c
	return c
}

func (r *Repo) UpdateCategory(id int64, c catalog.Category) (catalog.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return catalog.Category{}, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	c.ID = id
	r.categories[id] = c
	return c, nil
}

func (r *Repo) DeleteCategory(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	delete(r.categories, id)
	return nil
}

// RecordOrder stamps the order with a reference and timestamp when the client
// did not supply them, stores it, and returns the confirmation.
func (r *Repo) RecordOrder(order catalog.Order) catalog.Confirmation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.Reference == "" {
		order.Reference = uuid.NewString()
	}
	if order.CreatedAt == "" {
		order.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	r.orders = append(r.orders, order)

	return catalog.Confirmation{
		ID:        order.Reference,
		Status:    "confirmed",
		CreatedAt: order.CreatedAt,
	}
}

func (r *Repo) Orders() []catalog.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]catalog.Order(nil), r.orders...)
}
