package sync

import (
	"context"
	"time"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/matching"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
	"github.com/dinukasrimal/agency-sync-api/pkg/cache"
)

// ResolvedProduct es el resultado de resolver una línea externa: el producto
// interno, la variante representativa y el puntaje alcanzado por el matcher.
type ResolvedProduct struct {
	Product *entity.Product
	Color   string
	Size    string
	Score   int
}

// ProductResolver mapea nombre y categoría externos a un producto del catálogo
// interno usando una estrategia de puntuación inyectada (matching.Scorer).
type ProductResolver struct {
	repo   repository.ProductRepository
	scorer matching.Scorer
	cache  *cache.Cache[*ResolvedProduct]
}

// NewProductResolver construye el resolver. now permite inyectar reloj en tests.
func NewProductResolver(repo repository.ProductRepository, scorer matching.Scorer, ttl time.Duration, now func() time.Time) *ProductResolver {
	return &ProductResolver{
		repo:   repo,
		scorer: scorer,
		cache:  cache.New[*ResolvedProduct](ttl, now),
	}
}

// Resolve devuelve el mejor candidato que supere el umbral, o nil si la línea
// queda sin match. Cachea también los no-match (nil) para no repetir la
// búsqueda por cada línea igual dentro del TTL.
func (r *ProductResolver) Resolve(ctx context.Context, name, category string) (*ResolvedProduct, error) {
	key := matching.Normalize(name) + "|" + matching.Normalize(category)
	if res, ok := r.cache.Get(key); ok {
		return res, nil
	}

	products, err := r.repo.SearchCandidates(ctx, name, category)
	if err != nil {
		return nil, err
	}

	cands := make([]matching.Candidate, 0, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		cands = append(cands, matching.Candidate{ID: p.ID, Name: p.Name, Category: p.Category})
		byID[p.ID] = p
	}

	best, score, ok := matching.SelectBest(cands, matching.Query{Name: name, Category: category}, r.scorer)
	if !ok {
		r.cache.Set(key, nil)
		return nil, nil
	}

	product := byID[best.ID]
	color, size := product.DefaultVariant()
	res := &ResolvedProduct{Product: product, Color: color, Size: size, Score: score}
	r.cache.Set(key, res)
	return res, nil
}
