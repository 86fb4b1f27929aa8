package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/core"
)

func (a *Adapter) CreateMember(m *core.Member) error {
	ctx := context.Background()

	query := `INSERT INTO public.members (id, email, name, password, api_key, is_admin)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		m.ID, m.Email, m.Name, m.Password, m.APIKey, m.IsAdmin,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		return err
	}

	m.CreatedAt = createdAt
	m.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetMemberByID(id string) (*core.Member, error) {
	ctx := context.Background()
	q := `SELECT id, email, name, password, api_key, is_admin, created_at, updated_at FROM public.members WHERE id = $1`

	m := &core.Member{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&m.ID, &m.Email, &m.Name, &m.Password, &m.APIKey, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (a *Adapter) GetMemberByEmail(email string) (*core.Member, error) {
	ctx := context.Background()
	q := `SELECT id, email, name, password, api_key, is_admin, created_at, updated_at FROM public.members WHERE email = $1`

	m := &core.Member{}
	err := a.pool.QueryRow(ctx, q, email).Scan(&m.ID, &m.Email, &m.Name, &m.Password, &m.APIKey, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (a *Adapter) GetMemberByAPIKey(apiKey string) (*core.Member, error) {
	ctx := context.Background()
	q := `SELECT id, email, name, password, api_key, is_admin, created_at, updated_at FROM public.members WHERE api_key = $1`

	m := &core.Member{}
	err := a.pool.QueryRow(ctx, q, apiKey).Scan(&m.ID, &m.Email, &m.Name, &m.Password, &m.APIKey, &m.IsAdmin, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func (a *Adapter) UpdateMember(m *core.Member) error {
	ctx := context.Background()
	q := `UPDATE public.members SET email = $1, name = $2, password = $3, updated_at = now() WHERE id = $4 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, m.Email, m.Name, m.Password, m.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return core.ErrMemberNotFound
		}
		return err
	}
	m.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteMember(id string) error {
	ctx := context.Background()
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrMemberNotFound
	}
	return nil
}

func (a *Adapter) CountMembers() (int64, error) {
	ctx := context.Background()

	var count int64
	err := a.pool.QueryRow(ctx, `SELECT count(*) FROM public.members`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
