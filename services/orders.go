package services

import (
	"fmt"

	"storefront/core"
	"storefront/pkg/crypto"
)

// OrderItemParam identifies one line of a new order.
type OrderItemParam struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// customerCancelable lists the statuses a customer-facing cancel may leave.
// Completed and Canceled are terminal for this path.
var customerCancelable = []core.OrderStatus{
	core.OrderStatusOrdered,
	core.OrderStatusShipping,
}

type OrderService struct {
	db       core.OrderStorage
	products core.ProductStorage
	nanoid   *crypto.NanoIDGenerator
}

func NewOrderService(db core.OrderStorage, products core.ProductStorage) *OrderService {
	return &OrderService{db: db, products: products, nanoid: crypto.MustNanoID()}
}

// Create places a new order, snapshotting each product's name and current
// price into the order items. If any item is invalid the whole order is
// rejected and nothing is persisted.
func (s *OrderService) Create(actor *core.Actor, shippingAddress string, items []OrderItemParam) (*core.Order, error) {
	if actor == nil || actor.Member == nil {
		return nil, core.ErrUnauthenticated
	}
	if len(items) == 0 {
		return nil, core.ErrEmptyOrder
	}

	orderID, err := s.nanoid.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	order := &core.Order{
		ID:              orderID,
		MemberID:        actor.Member.ID,
		ShippingAddress: shippingAddress,
		Status:          core.OrderStatusOrdered,
	}

	for _, param := range items {
		if param.Quantity <= 0 {
			return nil, core.ErrInvalidQuantity
		}

		product, err := s.products.GetProductByID(param.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Orderable {
			return nil, core.ErrProductNotOrderable
		}

		itemID, err := s.nanoid.Generate()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ID: %w", err)
		}

		order.Items = append(order.Items, &core.OrderItem{
			ID:          itemID,
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    param.Quantity,
			UnitPrice:   product.Price,
		})
	}

	// Order and items are persisted in one transaction.
	if err := s.db.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// Get loads an order with its items. Used by administrative views; customer
// views go through GetForMember.
func (s *OrderService) Get(orderID string) (*core.Order, error) {
	return s.db.GetOrderByID(orderID)
}

// GetForMember loads an order on behalf of a customer, enforcing ownership.
// Administrators may also read it.
func (s *OrderService) GetForMember(actor *core.Actor, orderID string) (*core.Order, error) {
	order, err := s.db.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if err := core.RequireSelfOrAdmin(actor, order.MemberID); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByMember returns a customer's orders, most recent first.
func (s *OrderService) ListByMember(memberID string) ([]*core.Order, error) {
	return s.db.ListOrdersByMember(memberID)
}

// ListAll returns every order. Administrative use only; callers gate on the
// guard before reaching here.
func (s *OrderService) ListAll() ([]*core.Order, error) {
	return s.db.ListOrders()
}

// Cancel transitions an order to Canceled on behalf of its owner or an
// administrator. The check-then-set runs atomically in the store, so a
// caller losing a concurrent race observes the already-terminal status as
// ErrOrderAlreadyTerminal rather than silently overwriting it.
func (s *OrderService) Cancel(actor *core.Actor, orderID string) (*core.Order, error) {
	order, err := s.db.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if err := core.RequireSelfOrAdmin(actor, order.MemberID); err != nil {
		return nil, err
	}

	return s.db.TransitionOrder(orderID, core.OrderStatusCanceled, customerCancelable)
}

// ChangeAddress overwrites the shipping address snapshot. Owner only;
// administrators are deliberately not granted this operation. Terminal
// orders are immutable: the store refuses them inside the update itself, so
// a transition racing this call cannot be overwritten.
func (s *OrderService) ChangeAddress(actor *core.Actor, orderID, newAddress string) (*core.Order, error) {
	if newAddress == "" {
		return nil, core.ErrBlankAddress
	}

	order, err := s.db.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if err := core.RequireSelf(actor, order.MemberID); err != nil {
		return nil, err
	}

	return s.db.UpdateOrderAddress(orderID, newAddress)
}

// AdminTransition moves an order to an arbitrary target status, including
// backward (for operational correction, e.g. un-cancel). Administrator
// only; the terminal-state rule does not apply here.
func (s *OrderService) AdminTransition(actor *core.Actor, orderID, status string) (*core.Order, error) {
	if err := core.RequireAdmin(actor); err != nil {
		return nil, err
	}

	target, err := core.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	return s.db.TransitionOrder(orderID, target, nil)
}
