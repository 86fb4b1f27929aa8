package services

import (
	"sort"
	"sync"
	"time"

	"storefront/core"
)

// FakeStorage is a test-only fake implementing core.Storage. It keeps
// records in maps and exposes error fields for behavior injection. All
// methods are safe for concurrent use, and the two critical sections
// (TransitionOrder, SetDefaultAddress) hold the write lock across their
// whole check-then-set, matching the transaction boundary the real adapter
// provides.
type FakeStorage struct {
	mu sync.RWMutex

	members   map[string]*core.Member
	addresses map[string]*core.Address
	orders    map[string]*core.Order
	products  map[string]*core.Product

	seq     int64
	nowBase time.Time

	createErr error
	getErr    error
	updateErr error
	deleteErr error
}

var _ core.Storage = (*FakeStorage)(nil)

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{
		members:   make(map[string]*core.Member),
		addresses: make(map[string]*core.Address),
		orders:    make(map[string]*core.Order),
		products:  make(map[string]*core.Product),
		nowBase:   time.Now(),
	}
}

// next returns a strictly increasing timestamp so listing order is
// deterministic even when records are created within the same nanosecond.
func (f *FakeStorage) next() time.Time {
	f.seq++
	return f.nowBase.Add(time.Duration(f.seq) * time.Millisecond)
}

// ---- members ----

func (f *FakeStorage) CreateMember(m *core.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := f.next()
	m.CreatedAt = now
	m.UpdatedAt = now
	f.members[m.ID] = m
	return nil
}

func (f *FakeStorage) GetMemberByID(id string) (*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.members[id]
	if !ok {
		return nil, core.ErrMemberNotFound
	}
	return m, nil
}

func (f *FakeStorage) GetMemberByEmail(email string) (*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, m := range f.members {
		if m.Email == email {
			return m, nil
		}
	}
	return nil, core.ErrMemberNotFound
}

func (f *FakeStorage) GetMemberByAPIKey(apiKey string) (*core.Member, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, m := range f.members {
		if m.APIKey == apiKey {
			return m, nil
		}
	}
	return nil, core.ErrMemberNotFound
}

func (f *FakeStorage) UpdateMember(m *core.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.members[m.ID]; !ok {
		return core.ErrMemberNotFound
	}
	m.UpdatedAt = f.next()
	f.members[m.ID] = m
	return nil
}

func (f *FakeStorage) DeleteMember(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.members[id]; !ok {
		return core.ErrMemberNotFound
	}
	delete(f.members, id)
	return nil
}

func (f *FakeStorage) CountMembers() (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return int64(len(f.members)), nil
}

// ---- addresses ----

func (f *FakeStorage) CreateAddress(a *core.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := f.next()
	a.CreatedAt = now
	a.UpdatedAt = now
	f.addresses[a.ID] = a
	return nil
}

func (f *FakeStorage) GetAddressByID(id string) (*core.Address, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.addresses[id]
	if !ok {
		return nil, core.ErrAddressNotFound
	}
	return a, nil
}

func (f *FakeStorage) GetAddressByMemberAndContent(memberID, content string) (*core.Address, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, a := range f.addresses {
		if a.MemberID == memberID && a.Content == content {
			return a, nil
		}
	}
	return nil, core.ErrAddressNotFound
}

func (f *FakeStorage) ListAddressesByMember(memberID string) ([]*core.Address, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*core.Address
	for _, a := range f.addresses {
		if a.MemberID == memberID {
			out = append(out, a)
		}
	}
	// registration order
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeStorage) UpdateAddress(a *core.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.addresses[a.ID]; !ok {
		return core.ErrAddressNotFound
	}
	a.UpdatedAt = f.next()
	f.addresses[a.ID] = a
	return nil
}

func (f *FakeStorage) DeleteAddress(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.addresses[id]; !ok {
		return core.ErrAddressNotFound
	}
	delete(f.addresses, id)
	return nil
}

func (f *FakeStorage) DeleteMemberAddresses(memberID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	count := 0
	for id, a := range f.addresses {
		if a.MemberID == memberID {
			delete(f.addresses, id)
			count++
		}
	}
	return count, nil
}

func (f *FakeStorage) SetDefaultAddress(memberID, addressID string) (*core.Address, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	target, ok := f.addresses[addressID]
	if !ok {
		return nil, core.ErrAddressNotFound
	}

	// Clear-then-set under one lock, like the adapter's transaction.
	for _, a := range f.addresses {
		if a.MemberID == memberID {
			a.IsDefault = false
		}
	}
	target.IsDefault = true
	target.UpdatedAt = f.next()

	return target, nil
}

// ---- orders ----

func (f *FakeStorage) CreateOrder(o *core.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := f.next()
	o.CreatedAt = now
	o.UpdatedAt = now
	f.orders[o.ID] = o
	return nil
}

func (f *FakeStorage) GetOrderByID(id string) (*core.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrOrderNotFound
	}
	return o, nil
}

func (f *FakeStorage) ListOrdersByMember(memberID string) ([]*core.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	var out []*core.Order
	for _, o := range f.orders {
		if o.MemberID == memberID {
			out = append(out, o)
		}
	}
	// most recent first
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeStorage) ListOrders() ([]*core.Order, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]*core.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeStorage) UpdateOrderAddress(id, shippingAddress string) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrOrderNotFound
	}
	// Check-and-write under one lock, like the adapter's guarded UPDATE.
	if o.Status.Terminal() {
		return nil, core.ErrOrderAlreadyTerminal
	}
	o.ShippingAddress = shippingAddress
	o.UpdatedAt = f.next()
	return o, nil
}

func (f *FakeStorage) TransitionOrder(id string, target core.OrderStatus, allowedFrom []core.OrderStatus) (*core.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	o, ok := f.orders[id]
	if !ok {
		return nil, core.ErrOrderNotFound
	}

	if allowedFrom != nil {
		allowed := false
		for _, s := range allowedFrom {
			if o.Status == s {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, core.ErrOrderAlreadyTerminal
		}
	}

	o.Status = target
	o.UpdatedAt = f.next()
	return o, nil
}

// ---- products ----

func (f *FakeStorage) CreateProduct(p *core.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	now := f.next()
	p.CreatedAt = now
	p.UpdatedAt = now
	f.products[p.ID] = p
	return nil
}

func (f *FakeStorage) GetProductByID(id string) (*core.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.products[id]
	if !ok {
		return nil, core.ErrProductNotFound
	}
	return p, nil
}

func (f *FakeStorage) ListProducts() ([]*core.Product, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]*core.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// OrderCount reports how many orders are persisted; used by atomicity tests.
func (f *FakeStorage) OrderCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.orders)
}
