package repository

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// PartnerRepository define el puerto de lectura de identidades de contraparte.
type PartnerRepository interface {
	ListAll(ctx context.Context) ([]*entity.Partner, error)
}
