package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalInvoice representa una factura del ERP externo tal como la expone
// el mirror. Es de solo lectura: el pipeline nunca la modifica.
//
// ParseError guarda el motivo si el payload de la factura llegó malformado
// (colección de líneas no parseable, fecha inválida): la factura cuenta como
// error recuperable del run, nunca se descarta en silencio.
type ExternalInvoice struct {
	ID          string
	PartnerName string
	InvoiceDate time.Time
	Lines       []ExternalInvoiceLine
	ParseError  string
}

// ExternalInvoiceLine es una línea de factura externa ya parseada y validada.
type ExternalInvoiceLine struct {
	ProductName     string
	ProductCategory string
	QtyDelivered    decimal.Decimal // puede ser fraccionaria; <= 0 no es evento de stock
	PriceUnit       decimal.Decimal
}

// Stockable indica si la línea produce efecto en el ledger (cantidad > 0).
func (l ExternalInvoiceLine) Stockable() bool {
	return l.QtyDelivered.GreaterThan(decimal.Zero)
}
