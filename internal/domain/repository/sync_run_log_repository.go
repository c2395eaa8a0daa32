package repository

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// SyncRunLogRepository persiste el resultado de cada run (nunca se muta).
type SyncRunLogRepository interface {
	Create(ctx context.Context, log *entity.SyncRunLog) error
	ListRecent(ctx context.Context, limit int) ([]*entity.SyncRunLog, error)
}
