package sync

import (
	"context"
	"time"

	"github.com/dinukasrimal/agency-sync-api/internal/domain/entity"
	"github.com/dinukasrimal/agency-sync-api/internal/domain/repository"
)

// InvoiceSource es el puerto de lectura del mirror de facturas del ERP externo.
// El contrato es de solo lectura: el fetcher jamás muta la fuente. Un error
// aquí es fatal para el run (no se usa ninguna lista parcial).
type InvoiceSource interface {
	// FetchInvoicesSince devuelve las facturas con fecha >= since, ordenadas
	// de la más antigua a la más reciente.
	FetchInvoicesSince(ctx context.Context, since time.Time) ([]*entity.ExternalInvoice, error)
	// FetchAllInvoices devuelve todas las facturas, para un resync completo.
	FetchAllInvoices(ctx context.Context) ([]*entity.ExternalInvoice, error)
}

// MirrorTxRunner ejecuta una función dentro de una transacción de BD con el
// repo del mirror atado a esa tx. Garantiza que el reemplazo en bloque de la
// tabla espejo sea atómico.
type MirrorTxRunner interface {
	Run(ctx context.Context, fn func(mirror repository.ExternalInvoiceMirrorRepository) error) error
}
