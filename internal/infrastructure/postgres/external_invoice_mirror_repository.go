package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

var _ repository.ExternalInvoiceMirrorRepository = (*ExternalInvoiceMirrorRepo)(nil)

// ExternalInvoiceMirrorRepo mantiene la copia local de las facturas externas.
// Para el reemplazo en bloque debe construirse con una tx (vía TxRunner):
// borrar e insertar tienen que ser atómicos.
type ExternalInvoiceMirrorRepo struct {
	q Querier
}

// NewExternalInvoiceMirrorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExternalInvoiceMirrorRepository(q Querier) *ExternalInvoiceMirrorRepo {
	return &ExternalInvoiceMirrorRepo{q: q}
}

// ReplaceAll reemplaza la tabla espejo completa con el snapshot recibido.
// Las líneas se guardan como JSONB ya parseadas: aguas abajo nadie vuelve a
// tocar payloads crudos.
func (r *ExternalInvoiceMirrorRepo) ReplaceAll(ctx context.Context, invoices []*entity.ExternalInvoice) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM external_invoice_mirror`); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	const query = `
		INSERT INTO external_invoice_mirror (id, partner_name, invoice_date, lines, parse_error)
		VALUES ($1, $2, $3, $4, $5)`

	for start := 0; start < len(invoices); start += insertChunkSize {
		end := start + insertChunkSize
		if end > len(invoices) {
			end = len(invoices)
		}

		batch := &pgx.Batch{}
		for _, inv := range invoices[start:end] {
			lines, err := json.Marshal(inv.Lines)
			if err != nil {
				return fmt.Errorf("marshal lines (factura %s): %w", inv.ID, err)
			}
			batch.Queue(query, inv.ID, inv.PartnerName, inv.InvoiceDate, lines, nullIfEmpty(inv.ParseError))
		}

		results := r.q.SendBatch(ctx, batch)
		var batchErr error
		for range invoices[start:end] {
			if _, err := results.Exec(); err != nil {
				batchErr = err
				break
			}
		}
		if err := results.Close(); err != nil && batchErr == nil {
			batchErr = err
		}
		if batchErr != nil {
			return fmt.Errorf("insert mirror (chunk %d-%d): %w", start, end, batchErr)
		}
	}
	return nil
}

// CountAll devuelve cuántas facturas hay en el espejo.
func (r *ExternalInvoiceMirrorRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM external_invoice_mirror`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count mirror: %w", err)
	}
	return n, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
