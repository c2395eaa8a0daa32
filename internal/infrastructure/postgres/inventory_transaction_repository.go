package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// insertChunkSize limita el tamaño de cada batch enviado a la BD. Los cortes
// no tienen significado transaccional: cada fila es idempotente por sí sola
// gracias al ON CONFLICT, así que un crash a mitad de lote es reintentable.
const insertChunkSize = 100

// InventoryTransactionRepo implementación del ledger sobre PostgreSQL
// (usable con pool o tx).
//
// La tabla lleva un índice único parcial sobre
// (external_invoice_id, product_id, color, size) WHERE type = 'EXTERNAL_INVOICE';
// el insert-on-conflict contra ese índice convierte la carrera
// lectura-luego-escritura entre runs concurrentes en una garantía atómica.
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const insertIfAbsentSQL = `
	INSERT INTO inventory_transactions
		(id, product_id, color, size, type, quantity, reference, agency_id, user_id, external_invoice_id, notes, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (external_invoice_id, product_id, color, size)
		WHERE type = 'EXTERNAL_INVOICE'
	DO NOTHING`

// InsertIfAbsent inserta la transacción si su clave de línea externa no existe.
// Devuelve true si se escribió una fila nueva. Nunca actualiza filas: el
// ledger es append-only.
func (r *InventoryTransactionRepo) InsertIfAbsent(ctx context.Context, tx *entity.InventoryTransaction) (bool, error) {
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}
	cmd, err := r.q.Exec(ctx, insertIfAbsentSQL,
		tx.ID, tx.ProductID, tx.Color, tx.Size, tx.Type, tx.Quantity,
		tx.Reference, tx.AgencyID, tx.UserID, tx.ExternalInvoiceID, tx.Notes, tx.CreatedAt,
	)
	if err != nil {
		// El ON CONFLICT solo arbitra su índice; un 23505 de cualquier otra
		// constraint (ej. replay del mismo id) sigue significando "ya escrita".
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert inventory transaction: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// InsertBatchIfAbsent inserta el lote troceado en chunks de insertChunkSize
// usando pgx.Batch (un round-trip por chunk). Devuelve cuántas filas nuevas
// se escribieron; las ya presentes cuentan cero sin error.
func (r *InventoryTransactionRepo) InsertBatchIfAbsent(ctx context.Context, txs []*entity.InventoryTransaction) (int, error) {
	inserted := 0
	for start := 0; start < len(txs); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(txs) {
			end = len(txs)
		}

		batch := &pgx.Batch{}
		for _, tx := range txs[start:end] {
			if tx.ID == "" {
				tx.ID = uuid.New().String()
			}
			batch.Queue(insertIfAbsentSQL,
				tx.ID, tx.ProductID, tx.Color, tx.Size, tx.Type, tx.Quantity,
				tx.Reference, tx.AgencyID, tx.UserID, tx.ExternalInvoiceID, tx.Notes, tx.CreatedAt,
			)
		}

		results := r.q.SendBatch(ctx, batch)
		chunkInserted := 0
		var batchErr error
		for range txs[start:end] {
			cmd, err := results.Exec()
			if err != nil {
				batchErr = err
				break
			}
			chunkInserted += int(cmd.RowsAffected())
		}
		if err := results.Close(); err != nil && batchErr == nil {
			batchErr = err
		}
		if batchErr != nil {
			return inserted, fmt.Errorf("insert batch (chunk %d-%d): %w", start, end, batchErr)
		}
		inserted += chunkInserted
	}
	return inserted, nil
}

// ListByExternalInvoice devuelve las filas EXTERNAL_INVOICE de una factura externa.
func (r *InventoryTransactionRepo) ListByExternalInvoice(ctx context.Context, externalInvoiceID string) ([]*entity.InventoryTransaction, error) {
	query := `
		SELECT id, product_id, color, size, type, quantity, reference, agency_id, user_id, external_invoice_id, notes, created_at
		FROM inventory_transactions
		WHERE type = 'EXTERNAL_INVOICE' AND external_invoice_id = $1
		ORDER BY created_at`
	rows, err := r.q.Query(ctx, query, externalInvoiceID)
	if err != nil {
		return nil, fmt.Errorf("list by external invoice: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Color, &t.Size, &t.Type, &t.Quantity,
			&t.Reference, &t.AgencyID, &t.UserID, &t.ExternalInvoiceID, &t.Notes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
