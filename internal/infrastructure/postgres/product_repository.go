package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). El catálogo es de solo lectura para el sync.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, name, category, colors, sizes, created_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Category, &p.Colors, &p.Sizes, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// SearchCandidates devuelve productos cuyo nombre contiene name o cuya
// categoría contiene category (ILIKE, case-insensitive). El orden devuelto no
// es significativo: el desempate determinista lo hace el matcher por ID.
func (r *ProductRepo) SearchCandidates(ctx context.Context, name, category string) ([]*entity.Product, error) {
	query := `
		SELECT id, name, category, colors, sizes, created_at
		FROM products
		WHERE ($1 <> '' AND name ILIKE '%' || $1 || '%')
		   OR ($2 <> '' AND category ILIKE '%' || $2 || '%')`
	rows, err := r.q.Query(ctx, query, name, category)
	if err != nil {
		return nil, fmt.Errorf("search product candidates: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Colors, &p.Sizes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
