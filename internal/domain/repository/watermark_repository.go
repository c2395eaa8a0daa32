package repository

import (
	"context"
	"time"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// WatermarkRepository persiste el límite temporal del último sync completado.
type WatermarkRepository interface {
	// Get devuelve el watermark de la clave, o nil si nunca se ha sincronizado.
	Get(ctx context.Context, key string) (*entity.Watermark, error)
	// Set guarda (upsert) el watermark de la clave.
	Set(ctx context.Context, key string, value time.Time) error
}
