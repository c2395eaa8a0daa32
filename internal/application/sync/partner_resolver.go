package sync

import (
	"context"
	"time"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/matching"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
	"github.com/dinukasrimal/agency-sync-api/pkg/cache"
)

// PartnerResolver resuelve el nombre de contraparte de una factura externa a
// una identidad interna, por match exacto case-insensitive. A diferencia del
// resolver de productos no hay fallback difuso: un mismatch de identidad es
// más riesgoso que uno de producto.
type PartnerResolver struct {
	repo  repository.PartnerRepository
	cache *cache.Cache[*entity.Partner]
}

// NewPartnerResolver construye el resolver. now permite inyectar reloj en tests.
func NewPartnerResolver(repo repository.PartnerRepository, ttl time.Duration, now func() time.Time) *PartnerResolver {
	return &PartnerResolver{
		repo:  repo,
		cache: cache.New[*entity.Partner](ttl, now),
	}
}

// Resolve devuelve la identidad interna del nombre, o nil si no hay match.
// Un no-match no es error: la factura se salta y el run continúa.
func (r *PartnerResolver) Resolve(ctx context.Context, displayName string) (*entity.Partner, error) {
	key := matching.Normalize(displayName)
	if key == "" {
		return nil, nil
	}
	if p, ok := r.cache.Get(key); ok {
		return p, nil
	}

	partners, err := r.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	// Prima el cache con todo el directorio: los nombres se repiten factura a factura.
	var found *entity.Partner
	for _, p := range partners {
		k := matching.Normalize(p.Name)
		r.cache.Set(k, p)
		if k == key {
			found = p
		}
	}
	return found, nil
}
