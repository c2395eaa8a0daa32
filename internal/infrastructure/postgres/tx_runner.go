package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appsync "github.com/dinukasrimal/agency-sync-api/internal/application/sync"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

// Asegura que TxRunner implementa sync.MirrorTxRunner.
var _ appsync.MirrorTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Se usa para el reemplazo en bloque de la tabla espejo: borrar e insertar
// deben ser atómicos o un crash dejaría el mirror vacío.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con el repo del mirror atado a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(mirror repository.ExternalInvoiceMirrorRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewExternalInvoiceMirrorRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
