package repository

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// InventoryTransactionRepository define el puerto de escritura del ledger.
//
// El ledger es append-only: el puerto no expone Update ni Delete. La
// idempotencia es responsabilidad del store: InsertIfAbsent debe ser atómico
// (insert-on-conflict sobre la clave de línea externa), de modo que dos runs
// concurrentes nunca dupliquen una fila aunque ambos vean "no existe".
type InventoryTransactionRepository interface {
	// InsertIfAbsent inserta la transacción si su clave de idempotencia no
	// existe aún. Devuelve true si se escribió una fila nueva.
	InsertIfAbsent(ctx context.Context, tx *entity.InventoryTransaction) (bool, error)
	// InsertBatchIfAbsent inserta un lote (troceado internamente para respetar
	// límites de tamaño de request) y devuelve cuántas filas nuevas se escribieron.
	InsertBatchIfAbsent(ctx context.Context, txs []*entity.InventoryTransaction) (int, error)
	// ListByExternalInvoice devuelve las filas EXTERNAL_INVOICE de una factura
	// externa (observabilidad y tests de idempotencia).
	ListByExternalInvoice(ctx context.Context, externalInvoiceID string) ([]*entity.InventoryTransaction, error)
}
