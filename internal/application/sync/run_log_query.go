package sync

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

// RunLogQuery expone los SyncRunLog recientes para observabilidad.
type RunLogQuery struct {
	repo repository.SyncRunLogRepository
}

// NewRunLogQuery construye el caso de uso.
func NewRunLogQuery(repo repository.SyncRunLogRepository) *RunLogQuery {
	return &RunLogQuery{repo: repo}
}

// Recent devuelve los últimos runs, más reciente primero. limit fuera de
// [1,100] se ajusta a 20.
func (q *RunLogQuery) Recent(ctx context.Context, limit int) ([]*entity.SyncRunLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return q.repo.ListRecent(ctx, limit)
}
