package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

var _ repository.SyncRunLogRepository = (*SyncRunLogRepo)(nil)

// SyncRunLogRepo persiste el resultado de cada run del orquestador.
type SyncRunLogRepo struct {
	q Querier
}

// NewSyncRunLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSyncRunLogRepository(q Querier) *SyncRunLogRepo {
	return &SyncRunLogRepo{q: q}
}

// Create persiste un registro de run. Los registros nunca se mutan.
func (r *SyncRunLogRepo) Create(ctx context.Context, log *entity.SyncRunLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sync_run_logs (id, run_at, status, records_synced, message, details)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		log.ID, log.RunAt, log.Status, log.RecordsSynced, log.Message, log.Details,
	)
	if err != nil {
		return fmt.Errorf("create sync run log: %w", err)
	}
	return nil
}

// ListRecent devuelve los últimos runs, más reciente primero.
func (r *SyncRunLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.SyncRunLog, error) {
	query := `
		SELECT id, run_at, status, records_synced, message, details
		FROM sync_run_logs ORDER BY run_at DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync run logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.SyncRunLog
	for rows.Next() {
		var l entity.SyncRunLog
		if err := rows.Scan(&l.ID, &l.RunAt, &l.Status, &l.RecordsSynced, &l.Message, &l.Details); err != nil {
			return nil, fmt.Errorf("scan sync run log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
