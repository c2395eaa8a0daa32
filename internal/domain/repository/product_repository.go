package repository

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos (DIP).
// El pipeline de sync nunca escribe en el catálogo.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// SearchCandidates devuelve productos cuyo nombre contiene name o cuya
	// categoría contiene category (ambos case-insensitive). Cualquiera de los
	// dos términos puede estar vacío.
	SearchCandidates(ctx context.Context, name, category string) ([]*entity.Product, error)
}
