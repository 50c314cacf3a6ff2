package shop

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo: CRUD produk untuk admin + lookup harga/nama buat intake.
// Edit stok admin lewat Update adalah jalur non-atomik terpisah dari ledger.
type CatalogRepo struct{ DB *pgxpool.Pool }

func (r *CatalogRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, category, description, image_url, price_cents, stock, created_at, updated_at
		FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.ImageURL, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, &ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

// List: semua produk, atau substring search (case-insensitive) di nama/deskripsi/kategori.
func (r *CatalogRepo) List(ctx context.Context, search string) ([]Product, error) {
	q := `SELECT id, name, category, description, image_url, price_cents, stock, created_at, updated_at
	      FROM products`
	args := []any{}
	if search != "" {
		q += ` WHERE name ILIKE '%' || $1 || '%'
		          OR description ILIKE '%' || $1 || '%'
		          OR category ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	q += ` ORDER BY name`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Description, &p.ImageURL, &p.PriceCents, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) Create(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, category, description, image_url, price_cents, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Category, p.Description, p.ImageURL, p.PriceCents, p.Stock).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *CatalogRepo) Update(ctx context.Context, p Product) (Product, error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET name = $2, category = $3, description = $4, image_url = $5, price_cents = $6, stock = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Description, p.ImageURL, p.PriceCents, p.Stock)
	if err != nil {
		return Product{}, err
	}
	if ct.RowsAffected() != 1 {
		return Product{}, &ProductNotFoundError{ProductID: p.ID}
	}
	return r.GetProduct(ctx, p.ID)
}

func (r *CatalogRepo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return &ProductNotFoundError{ProductID: id}
	}
	return nil
}

func (r *CatalogRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}
