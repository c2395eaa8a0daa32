package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

var _ repository.WatermarkRepository = (*WatermarkRepo)(nil)

// WatermarkRepo persiste los watermarks de sincronización (una fila por clave).
type WatermarkRepo struct {
	q Querier
}

// NewWatermarkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWatermarkRepository(q Querier) *WatermarkRepo {
	return &WatermarkRepo{q: q}
}

// Get devuelve el watermark de la clave, o nil si nunca se ha sincronizado.
func (r *WatermarkRepo) Get(ctx context.Context, key string) (*entity.Watermark, error) {
	query := `SELECT key, value, updated_at FROM sync_watermarks WHERE key = $1`
	var w entity.Watermark
	err := r.q.QueryRow(ctx, query, key).Scan(&w.Key, &w.Value, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get watermark: %w", err)
	}
	return &w, nil
}

// Set guarda (upsert) el watermark de la clave.
func (r *WatermarkRepo) Set(ctx context.Context, key string, value time.Time) error {
	query := `
		INSERT INTO sync_watermarks (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("set watermark: %w", err)
	}
	return nil
}
