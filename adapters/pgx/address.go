package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/core"
)

func (a *Adapter) CreateAddress(addr *core.Address) error {
	ctx := context.Background()

	query := `INSERT INTO public.addresses (id, member_id, content, is_default)
	          VALUES ($1, $2, $3, $4)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		addr.ID, addr.MemberID, addr.Content, addr.IsDefault,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		return err
	}

	addr.CreatedAt = createdAt
	addr.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetAddressByID(id string) (*core.Address, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, content, is_default, created_at, updated_at FROM public.addresses WHERE id = $1`

	addr := &core.Address{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&addr.ID, &addr.MemberID, &addr.Content, &addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}

func (a *Adapter) GetAddressByMemberAndContent(memberID, content string) (*core.Address, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, content, is_default, created_at, updated_at
	      FROM public.addresses WHERE member_id = $1 AND content = $2`

	addr := &core.Address{}
	err := a.pool.QueryRow(ctx, q, memberID, content).Scan(&addr.ID, &addr.MemberID, &addr.Content, &addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}

func (a *Adapter) ListAddressesByMember(memberID string) ([]*core.Address, error) {
	ctx := context.Background()
	q := `SELECT id, member_id, content, is_default, created_at, updated_at
	      FROM public.addresses WHERE member_id = $1 ORDER BY created_at ASC`

	rows, err := a.pool.Query(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*core.Address
	for rows.Next() {
		addr := &core.Address{}
		err := rows.Scan(&addr.ID, &addr.MemberID, &addr.Content, &addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (a *Adapter) UpdateAddress(addr *core.Address) error {
	ctx := context.Background()
	q := `UPDATE public.addresses SET content = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, addr.Content, addr.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return core.ErrAddressNotFound
		}
		return err
	}
	addr.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteAddress(id string) error {
	ctx := context.Background()
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.addresses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrAddressNotFound
	}
	return nil
}

func (a *Adapter) DeleteMemberAddresses(memberID string) (int, error) {
	ctx := context.Background()
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.addresses WHERE member_id = $1`, memberID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// SetDefaultAddress clears every default the member holds and promotes the
// target inside one transaction, so concurrent promotions settle with
// exactly one default row.
func (a *Adapter) SetDefaultAddress(memberID, addressID string) (*core.Address, error) {
	ctx := context.Background()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `UPDATE public.addresses SET is_default = false WHERE member_id = $1 AND is_default = true`, memberID)
	if err != nil {
		return nil, err
	}

	q := `UPDATE public.addresses SET is_default = true, updated_at = now()
	      WHERE id = $1 AND member_id = $2
	      RETURNING id, member_id, content, is_default, created_at, updated_at`

	addr := &core.Address{}
	err = tx.QueryRow(ctx, q, addressID, memberID).Scan(&addr.ID, &addr.MemberID, &addr.Content, &addr.IsDefault, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrAddressNotFound
		}
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return addr, nil
}
