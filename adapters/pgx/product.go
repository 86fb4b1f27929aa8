package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"storefront/core"
)

func (a *Adapter) CreateProduct(p *core.Product) error {
	ctx := context.Background()

	query := `INSERT INTO public.products (id, name, price, image_url, category, description, orderable)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Price, p.ImageURL, p.Category, p.Description, p.Orderable,
	).Scan(&createdAt, &updatedAt)

	if err != nil {
		return err
	}

	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetProductByID(id string) (*core.Product, error) {
	ctx := context.Background()
	q := `SELECT id, name, price, image_url, category, description, orderable, created_at, updated_at
	      FROM public.products WHERE id = $1`

	p := &core.Product{}
	err := a.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.Description, &p.Orderable, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, core.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (a *Adapter) ListProducts() ([]*core.Product, error) {
	ctx := context.Background()
	q := `SELECT id, name, price, image_url, category, description, orderable, created_at, updated_at
	      FROM public.products ORDER BY created_at ASC`

	rows, err := a.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*core.Product
	for rows.Next() {
		p := &core.Product{}
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.Description, &p.Orderable, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
