package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/core"
)

// CreateOrder persists the order row and every item inside one transaction;
// a failing item rolls the whole order back.
func (a *Adapter) CreateOrder(o *core.Order) error {
	ctx := context.Background()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO public.orders (id, member_id, shipping_address, status)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err = tx.QueryRow(ctx, query, o.ID, o.MemberID, o.ShippingAddress, o.Status).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO public.order_items (id, order_id, product_id, product_name, quantity, unit_price)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetOrderByID(id string) (*core.Order, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, shipping_address, status, created_at, updated_at FROM public.orders WHERE id = $1`

	o := &core.Order{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&o.ID, &o.MemberID, &o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrOrderNotFound
		}
		return nil, err
	}

	if o.Items, err = a.orderItems(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (a *Adapter) ListOrdersByMember(memberID string) ([]*core.Order, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, shipping_address, status, created_at, updated_at
	      FROM public.orders WHERE member_id = $1 ORDER BY created_at DESC`

	return a.listOrders(ctx, q, memberID)
}

func (a *Adapter) ListOrders() ([]*core.Order, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, shipping_address, status, created_at, updated_at
	      FROM public.orders ORDER BY created_at DESC`

	return a.listOrders(ctx, q)
}

// UpdateOrderAddress writes the new snapshot only while the status is
// non-terminal; the status predicate rides on the UPDATE itself so a
// concurrent transition cannot slip in between a check and the write.
func (a *Adapter) UpdateOrderAddress(id, shippingAddress string) (*core.Order, error) {
	ctx := context.Background()
	q := `UPDATE public.orders SET shipping_address = $1, updated_at = now()
	      WHERE id = $2 AND status NOT IN ($3, $4)
	      RETURNING id, member_id, shipping_address, status, created_at, updated_at`

	o := &core.Order{}
	err := a.pool.QueryRow(ctx, q, shippingAddress, id, core.OrderStatusCompleted, core.OrderStatusCanceled).
		Scan(&o.ID, &o.MemberID, &o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			// Zero rows is either a missing order or a terminal one.
			var status core.OrderStatus
			err = a.pool.QueryRow(ctx, `SELECT status FROM public.orders WHERE id = $1`, id).Scan(&status)
			if err == pgx.ErrNoRows {
				return nil, core.ErrOrderNotFound
			}
			if err != nil {
				return nil, err
			}
			return nil, core.ErrOrderAlreadyTerminal
		}
		return nil, err
	}

	if o.Items, err = a.orderItems(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

// TransitionOrder locks the order row, checks the current status against
// allowedFrom, and writes the target status, all in one transaction. A nil
// allowedFrom permits any current status.
func (a *Adapter) TransitionOrder(id string, target core.OrderStatus, allowedFrom []core.OrderStatus) (*core.Order, error) {
	ctx := context.Background()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	o := &core.Order{}
	q := `SELECT id, member_id, shipping_address, status, created_at, updated_at
	      FROM public.orders WHERE id = $1 FOR UPDATE`
	err = tx.QueryRow(ctx, q, id).Scan(&o.ID, &o.MemberID, &o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrOrderNotFound
		}
		return nil, err
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

	var updatedAt time.Time
	err = tx.QueryRow(ctx, `UPDATE public.orders SET status = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`, target, id).Scan(&updatedAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	o.Status = target
	o.UpdatedAt = updatedAt

	if o.Items, err = a.orderItems(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (a *Adapter) listOrders(ctx context.Context, query string, args ...any) ([]*core.Order, error) {
	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*core.Order
	for rows.Next() {
		o := &core.Order{}
		err := rows.Scan(&o.ID, &o.MemberID, &o.ShippingAddress, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if o.Items, err = a.orderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (a *Adapter) orderItems(ctx context.Context, orderID string) ([]*core.OrderItem, error) {
	q := `SELECT id, order_id, product_id, product_name, quantity, unit_price
	      FROM public.order_items WHERE order_id = $1 ORDER BY seq ASC`

	rows, err := a.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*core.OrderItem
	for rows.Next() {
		item := &core.OrderItem{}
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
