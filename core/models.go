package core

import "time"

// Member represents a customer account in the system.
//
// This is the "identity" - who someone is. The APIKey is a long-lived
// secondary credential minted at join time and stable for the life of
// the account.
type Member struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"-"` // Never expose in JSON
	APIKey    string    `json:"-"` // Never expose in JSON
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PrincipalSource tags how an Actor was resolved.
//
// Claims-derived actors skip the credential store and are trusted for
// request-scoped identity only; call sites that need guaranteed-fresh
// authorization data (role revocation) must insist on FromStore.
type PrincipalSource int

const (
	// FromClaims means the actor was reconstructed from a signed token
	// payload without a store lookup. Member.Password is not populated.
	FromClaims PrincipalSource = iota
	// FromStore means the actor was loaded from the credential store.
	FromStore
)

// Actor is the resolved principal for a single request. It is threaded
// through the call chain explicitly, never held in a process-wide global.
type Actor struct {
	Member *Member
	Source PrincipalSource
}

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusShipping  OrderStatus = "SHIPPING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// ParseOrderStatus maps a raw string onto the status enum.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusOrdered, OrderStatusShipping, OrderStatusCompleted, OrderStatusCanceled:
		return OrderStatus(s), nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// Terminal reports whether no customer-facing transition is defined out of
// this status. Administrative transitions ignore it.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// Order represents a placed order. ShippingAddress is a free-text snapshot,
// not a reference to an Address row.
type Order struct {
	ID              string       `json:"id"`
	MemberID        string       `json:"memberId"`
	ShippingAddress string       `json:"shippingAddress"`
	Status          OrderStatus  `json:"status"`
	Items           []*OrderItem `json:"items"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// OrderItem carries the product name and unit price captured at order
// creation time. They are never recomputed from the live product record.
type OrderItem struct {
	ID          string `json:"id"`
	OrderID     string `json:"orderId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unitPrice"`
}

// Address is a saved shipping address. At most one address per member may
// have IsDefault set; the storage adapter enforces this inside the
// SetDefaultAddress transaction.
type Address struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"memberId"`
	Content   string    `json:"content"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is the catalog record orders snapshot from.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       int       `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Orderable   bool      `json:"orderable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
