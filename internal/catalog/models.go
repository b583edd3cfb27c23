package catalog

// Product is owned by the catalog service; read-only from the client's side.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Category is a catalog-owned grouping label.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// OrderItem is one cart line captured in an order snapshot.
type OrderItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is the payload submitted at checkout: cart snapshot plus shipping
// fields and a timestamp.
type Order struct {
	Reference string      `json:"reference,omitempty"`
	UserID    string      `json:"userId"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Address   string      `json:"address"`
	CreatedAt string      `json:"createdAt"`
}

// Confirmation is returned by the order service on success.
type Confirmation struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// FilterMode selects how QueryByFilter interprets its text argument.
type FilterMode string

const (
	FilterCategory FilterMode = "category"
	FilterSearch   FilterMode = "search"
)

// DefaultCategory is the catch-all category that disables filtering.
const DefaultCategory = "All"
