package repository

import (
	"context"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
)

// ExternalInvoiceMirrorRepository maneja la tabla espejo local de facturas
// externas. En un resync completo la tabla se reemplaza en bloque; la
// atomicidad (borrar + insertar en la misma transacción) la garantiza el
// TxRunner que construye este repo.
type ExternalInvoiceMirrorRepository interface {
	ReplaceAll(ctx context.Context, invoices []*entity.ExternalInvoice) error
	CountAll(ctx context.Context) (int, error)
}
