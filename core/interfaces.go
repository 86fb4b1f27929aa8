package core

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORTS (Database operations)
// ============================================

// MemberStorage defines credential-store operations. It is authoritative
// for authorization-sensitive fields; claims-derived actors bypass it.
type MemberStorage interface {
	CreateMember(m *Member) error
	GetMemberByID(id string) (*Member, error)
	GetMemberByEmail(email string) (*Member, error)
	GetMemberByAPIKey(apiKey string) (*Member, error)
	UpdateMember(m *Member) error
	DeleteMember(id string) error
	CountMembers() (int64, error)
}

// AddressStorage defines address-book operations.
//
// SetDefaultAddress must clear every other default owned by the same member
// and set the target inside a single transaction, so that concurrent calls
// for one member settle with exactly one default.
type AddressStorage interface {
	CreateAddress(a *Address) error
	GetAddressByID(id string) (*Address, error)
	GetAddressByMemberAndContent(memberID, content string) (*Address, error)
	ListAddressesByMember(memberID string) ([]*Address, error)
	UpdateAddress(a *Address) error
	DeleteAddress(id string) error
	DeleteMemberAddresses(memberID string) (int, error)
	SetDefaultAddress(memberID, addressID string) (*Address, error)
}

// OrderStorage defines order persistence.
//
// CreateOrder persists the order and all of its items atomically; if any
// item fails, nothing is persisted.
//
// UpdateOrderAddress refuses orders whose status is terminal inside its own
// transaction, so a concurrent cancel or admin transition cannot be
// overwritten; losing callers get ErrOrderAlreadyTerminal.
//
// TransitionOrder performs a read-modify-write of the status in a single
// transaction. When allowedFrom is non-nil and the current status is not in
// it, the call fails with ErrOrderAlreadyTerminal and the stored status is
// left untouched. A nil allowedFrom permits any current status
// (administrative override).
type OrderStorage interface {
	CreateOrder(o *Order) error
	GetOrderByID(id string) (*Order, error)
	ListOrdersByMember(memberID string) ([]*Order, error)
	ListOrders() ([]*Order, error)
	UpdateOrderAddress(id, shippingAddress string) (*Order, error)
	TransitionOrder(id string, target OrderStatus, allowedFrom []OrderStatus) (*Order, error)
}

// ProductStorage defines catalog reads plus creation for seeding.
type ProductStorage interface {
	CreateProduct(p *Product) error
	GetProductByID(id string) (*Product, error)
	ListProducts() ([]*Product, error)
}

// Storage is the composite port a database adapter implements.
type Storage interface {
	MemberStorage
	AddressStorage
	OrderStorage
	ProductStorage
}
